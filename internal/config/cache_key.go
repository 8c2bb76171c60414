package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// DocumentKey returns the cache key for a stored configuration document
func (r *CacheKeyStruct) DocumentKey(collection, id string) string {
	return fmt.Sprintf("doc:%s:%s", collection, id)
}

// OfferingsUpdatedChannel is the Redis PubSub channel announcing catalog,
// requirements and offerings writes
func (r *CacheKeyStruct) OfferingsUpdatedChannel() string {
	return "dcda:offerings:updated"
}

// RateLimitKey returns the counter key of a client for the current window
func (r *CacheKeyStruct) RateLimitKey(scope, clientIP string, window int64) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", scope, clientIP, window)
}

var CacheKey = NewCacheKeyStruct()
