package cropdoctor

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Disease is one verified knowledge-base entry.
type Disease struct {
	ID                string   `json:"id"`
	Name              string   `json:"disease_name"`
	ScientificName    string   `json:"scientific_name"`
	CropsAffected     []string `json:"crops_affected"`
	Symptoms          []string `json:"symptoms"`
	Cause             string   `json:"cause"`
	OrganicTreatment  []string `json:"organic_treatment"`
	ChemicalTreatment []string `json:"chemical_treatment"`
	Prevention        []string `json:"prevention"`
	SeverityRange     string   `json:"severity_range"`
	CommonRegions     []string `json:"common_regions"`
}

// CommonIn reports whether the disease is listed for state. An "All"
// region matches every state.
func (d Disease) CommonIn(state string) bool {
	state = strings.ToLower(strings.TrimSpace(state))
	for _, r := range d.CommonRegions {
		if r == "All" || (state != "" && strings.Contains(strings.ToLower(r), state)) {
			return true
		}
	}
	return false
}

// KnowledgeBase resolves disease names to verified entries.
// Implementations must be safe for concurrent reads.
type KnowledgeBase interface {
	// Lookup returns the entry for a disease name reported by the model.
	Lookup(name string) (Disease, bool)

	// DiseasesForCrop returns the entries known to affect crop.
	DiseasesForCrop(crop string) []Disease

	// All returns every entry in reference order.
	All() []Disease
}

// MemoryKB is an immutable in-memory KnowledgeBase. Lookup matches names
// and ids exactly, ignoring case and surrounding space.
type MemoryKB struct {
	entries []Disease
	byName  map[string]int
	byID    map[string]int

	crops  []string
	byCrop map[string][]int
}

// NewMemoryKB indexes entries. The slice is copied.
func NewMemoryKB(entries []Disease) *MemoryKB {
	kb := &MemoryKB{
		entries: append([]Disease(nil), entries...),
		byName:  make(map[string]int, len(entries)),
		byID:    make(map[string]int, len(entries)),
		byCrop:  make(map[string][]int),
	}
	for i, e := range kb.entries {
		if key := normalize(e.Name); key != "" {
			if _, dup := kb.byName[key]; !dup {
				kb.byName[key] = i
			}
		}
		if e.ID != "" {
			kb.byID[e.ID] = i
		}
		for _, crop := range e.CropsAffected {
			key := normalize(crop)
			if _, seen := kb.byCrop[key]; !seen {
				kb.crops = append(kb.crops, key)
			}
			kb.byCrop[key] = append(kb.byCrop[key], i)
		}
	}
	return kb
}

// LoadKB reads a JSON array of Disease entries from path.
func LoadKB(path string) (*MemoryKB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read disease kb: %w", err)
	}
	var entries []Disease
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse disease kb %s: %w", path, err)
	}
	return NewMemoryKB(entries), nil
}

// Lookup implements KnowledgeBase.
func (kb *MemoryKB) Lookup(name string) (Disease, bool) {
	if i, ok := kb.byName[normalize(name)]; ok {
		return kb.entries[i], true
	}
	if i, ok := kb.byID[strings.TrimSpace(name)]; ok {
		return kb.entries[i], true
	}
	return Disease{}, false
}

// DiseasesForCrop implements KnowledgeBase. An exact crop name wins;
// otherwise the first indexed crop that contains, or is contained in, the
// query is used.
func (kb *MemoryKB) DiseasesForCrop(crop string) []Disease {
	key := normalize(crop)
	if key == "" {
		return nil
	}
	idx, ok := kb.byCrop[key]
	if !ok {
		for _, c := range kb.crops {
			if strings.Contains(c, key) || strings.Contains(key, c) {
				idx = kb.byCrop[c]
				break
			}
		}
	}
	out := make([]Disease, len(idx))
	for i, j := range idx {
		out[i] = kb.entries[j]
	}
	return out
}

// All implements KnowledgeBase.
func (kb *MemoryKB) All() []Disease {
	return append([]Disease(nil), kb.entries...)
}

// Len returns the number of entries.
func (kb *MemoryKB) Len() int { return len(kb.entries) }

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
