// Package utime converts between wall-clock times and the signed Unix-second
// timestamps carried in records.
package utime

import "time"

// Unix returns t as whole seconds since the Unix epoch. Times before the
// epoch are negative.
func Unix(t time.Time) int64 { return t.Unix() }

// Time returns the UTC time for Unix seconds sec.
func Time(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

// After returns the Unix seconds d from now, truncated to whole seconds.
func After(now time.Time, d time.Duration) int64 { return Unix(now.Add(d)) }
