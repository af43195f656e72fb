package fragmentcache

import "time"

// SetClock replaces the time source of either cache.
func SetClock(cache any, now func() time.Time) {
	switch c := cache.(type) {
	case *Memory:
		c.now = now
	case *SQLite:
		c.now = now
	}
}
