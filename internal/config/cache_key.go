package config

import "time"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CourseDeadlinesKey returns the cache key for the course list with next
// deadlines. "Next" is relative to the current calendar day, so the key
// carries today's date: an entry written before midnight can never be read
// after it, and the previous day's entry just expires with its TTL.
func (r *CacheKeyStruct) CourseDeadlinesKey() string {
	return "courses:next_deadlines:" + time.Now().Format("2006-01-02")
}

var CacheKey = NewCacheKeyStruct()
