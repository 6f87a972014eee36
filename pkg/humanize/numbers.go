// Package humanize formats large integers into compact human-readable
// strings for terminal display.
package humanize

import (
	"fmt"
	"strconv"
)

var units = []struct {
	value  uint64
	suffix string
}{
	{1_000_000_000, "b"},
	{1_000_000, "m"},
	{1_000, "k"},
}

// Compact abbreviates n with a k/m/b suffix, keeping one decimal place
// when n is not an exact multiple of the unit:
//
//	999       -> "999"
//	1000      -> "1k"
//	56000     -> "56k"
//	1500000   -> "1.5m"
//	0         -> "0"
func Compact(n uint64) string {
	for i, u := range units {
		if n < u.value {
			continue
		}
		tenths := (n + u.value/20) / (u.value / 10) // rounded to one decimal
		if tenths == 10000 && i > 0 {
			// Rounded up to a full thousand of this unit: promote.
			u = units[i-1]
			tenths = 10
		}
		if tenths%10 == 0 {
			return fmt.Sprintf("%d%s", tenths/10, u.suffix)
		}
		return fmt.Sprintf("%d.%d%s", tenths/10, tenths%10, u.suffix)
	}
	return strconv.FormatUint(n, 10)
}
