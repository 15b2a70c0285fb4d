package timer

import (
	"fmt"
	"time"
)

// FormatTime renders a duration as mm:ss, rounding up to the next second so
// a running countdown never shows 00:00 early.
func FormatTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}
