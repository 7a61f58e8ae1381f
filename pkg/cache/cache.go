// Package cache provides a TTL key/value store used for listing pages.
//
// Two drivers implement Store: an in-process memory store and a Redis-backed
// store. Both keep an explicit index of live keys alongside the values so
// RemoveByPrefix scans only keys this store wrote, never the whole backing
// storage.
//
// Every driver is fail-open: an internal fault (connection loss, marshal
// failure) reads as a cache miss and never aborts the caller's operation.
package cache

import "time"

// Store is the cache contract consumed by the services.
//
// Get unmarshals the cached value into dest and reports whether the key was
// present and fresh. Expired entries read as absent even before they are
// physically purged.
type Store interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
	Remove(key string) error
	RemoveByPrefix(prefix string) error
}
