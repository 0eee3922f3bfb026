package schemes

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `[
  {"id": "pm_kisan", "name": "PM-KISAN", "short": "Income support", "category": "income_support",
   "states": ["All"], "max_land_acres": null},
  {"id": "kalia", "name": "KALIA", "short": "Odisha support", "category": "income_support",
   "states": ["Odisha"], "max_land_acres": 5}
]`

func writeCatalog(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "schemes.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeCatalog(t, t.TempDir(), catalogJSON)

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.Path())
	assert.Equal(t, 2, c.Len())

	s := c.Schemes()
	assert.Nil(t, s[0].MaxLandAcres)
	require.NotNil(t, s[1].MaxLandAcres)
	assert.Equal(t, 5.0, *s[1].MaxLandAcres)
}

func TestLoadCatalog_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadCatalog(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "read scheme catalog")

	_, err = LoadCatalog(writeCatalog(t, dir, `{"id": 1}`))
	assert.ErrorContains(t, err, "parse scheme catalog")
}

func TestCatalog_Filter(t *testing.T) {
	c, err := LoadCatalog(writeCatalog(t, t.TempDir(), catalogJSON))
	require.NoError(t, err)

	ids := func(s []Scheme) []string {
		out := make([]string, len(s))
		for i := range s {
			out[i] = s[i].ID
		}
		return out
	}
	assert.Equal(t, []string{"pm_kisan", "kalia"}, ids(c.Filter("Odisha", 2)))
	assert.Equal(t, []string{"pm_kisan"}, ids(c.Filter("Odisha", 8)))
	assert.Equal(t, []string{"pm_kisan"}, ids(c.Filter("Punjab", 2)))
	assert.Empty(t, NewCatalog(nil).Filter("Punjab", 2))
}

func TestCatalog_ReloadKeepsSchemesOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, catalogJSON)
	c, err := LoadCatalog(path)
	require.NoError(t, err)

	writeCatalog(t, dir, `not json`)
	assert.Error(t, c.Reload())
	assert.Equal(t, 2, c.Len())
}

func TestCatalog_NoPath(t *testing.T) {
	c := NewCatalog([]Scheme{{ID: "a"}})
	assert.ErrorIs(t, c.Reload(), ErrNoPath)
	_, err := c.Watch(context.Background())
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestCatalog_Watch(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, catalogJSON)
	c, err := LoadCatalog(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done, err := c.Watch(ctx)
	require.NoError(t, err)

	writeCatalog(t, dir, `[{"id": "only", "states": ["All"]}]`)
	require.Eventually(t, func() bool { return c.Len() == 1 }, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "only", c.Schemes()[0].ID)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
