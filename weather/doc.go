// Package weather turns a forecast into farming alerts and a short advisory.
//
// Alerts are rule based and need no model call. The advisory is one text
// call; when it fails a fixed sentence built from the current conditions is
// returned instead. Fetching the forecast is left to a Source supplied by
// the caller.
package weather
