// Package truncate shortens text that is pasted into prompts or shown to
// farmers.
//
// A Truncator cuts text to a token budget, either keeping the start or
// keeping both ends with a marker in between:
//
//	tr := truncate.New(truncate.KeepEnds)
//	ctx, cut := tr.Truncate(schemeList, 1500)
//
// Words cuts to a rune limit at a sentence or word boundary.
package truncate
