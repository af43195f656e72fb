// Package fragmentcache provides view.Cache implementations for fragment
// output: an in-process Memory store and a SQLite-backed store that survives
// restarts. Both treat a zero ttl as "never expires".
package fragmentcache
