package model

import (
	"fmt"
	"strings"
	"time"
)

// FormatDisplayDate renders t the way id-ID locales print a date time,
// e.g. "7/3/2026, 14.05.09".
func FormatDisplayDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return fmt.Sprintf("%d/%d/%d, %02d.%02d.%02d",
		t.Day(), int(t.Month()), t.Year(), t.Hour(), t.Minute(), t.Second())
}

// FormatTransactionDate is FormatDisplayDate without the comma, the form
// stored on transaction records.
func FormatTransactionDate(t time.Time, loc *time.Location) string {
	return strings.Replace(FormatDisplayDate(t, loc), ",", "", 1)
}
