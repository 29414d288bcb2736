package report

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// FormatElapsed renders d as "{days}d {hours}h", "{days}d {seconds}s" or
// "{seconds}s". Hours and seconds come from the part of d left over after
// whole days; sub-second precision is dropped.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int64(d / day)
	secs := int64((d % day) / time.Second)

	switch {
	case days > 0 && secs > 3600:
		return fmt.Sprintf("%dd %dh", days, secs/3600)
	case days > 0:
		return fmt.Sprintf("%dd %ds", days, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}
