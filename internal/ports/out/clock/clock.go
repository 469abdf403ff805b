package clock

import "time"

// Clock provides wall-clock time to token minting and record timestamps.
type Clock interface {
	Now() time.Time
}
