// Package pubtrans implements the extraction side of the connector: the rolling
// date window, the Pubtrans DOI query catalog, the SQL Server source handle, and
// the query processor that streams result rows into a domain transformer.
package pubtrans

import "time"

// DateWindow is the half-open [From, To) operating-day range the extraction
// queries are bounded by. Both bounds are ISO calendar dates (yyyy-mm-dd),
// which is the only date format that ever reaches the query text.
type DateWindow struct {
	From string
	To   string
}

// NewDateWindow computes the window relative to now: From is historyDays in
// the past, To is futureDays in the future. It must be called at the start of
// every poll cycle so the window advances with wall-clock time; all queries
// within one cycle share the same window value.
func NewDateWindow(now time.Time, historyDays, futureDays int) DateWindow {
	return DateWindow{
		From: now.AddDate(0, 0, -historyDays).Format(time.DateOnly),
		To:   now.AddDate(0, 0, futureDays).Format(time.DateOnly),
	}
}
