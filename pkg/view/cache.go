package view

import "time"

// Cache is the key-value store used for fragment caching. Implementations
// decide how ttl is honoured; a zero ttl means "no expiry".
type Cache interface {
	Get(key string) (string, bool, error)
	Set(key, value string, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// NullCache never stores anything, so every fragment is rendered fresh.
type NullCache struct{}

var _ Cache = NullCache{}

func (NullCache) Get(string) (string, bool, error)       { return "", false, nil }
func (NullCache) Set(string, string, time.Duration) error { return nil }
func (NullCache) Delete(string) error                     { return nil }
func (NullCache) Clear() error                            { return nil }
