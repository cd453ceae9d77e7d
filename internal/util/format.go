package util //nolint:revive // package name util hosts shared formatting helpers used by templates and the terminal client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// FormatCell renders a decoded JSON value for a table cell.
// Numbers keep the backend's textual form; nested values are shown as JSON.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// FormatElapsed formats how long a query took, handling edge cases.
// Returns "—" for zero or negative durations, truncates to milliseconds for readability.
func FormatElapsed(d time.Duration) string {
	switch {
	case d <= 0:
		return "—"
	case d < time.Millisecond:
		return d.String()
	default:
		return d.Truncate(time.Millisecond).String()
	}
}
