// Package advisor holds the single-call assistants: free-form chat, the
// twelve-month crop calendar and the hourly farm-task advisor.
//
// Crop calendars are cached by state and crop. Use NewSQLiteCache for a
// cache that survives restarts.
package advisor
