package ccjs

import "time"

func microsToDuration(micros int64) time.Duration {
	return time.Duration(micros) * time.Microsecond
}
