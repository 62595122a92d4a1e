package entities

import "time"

// CachedMedia is a data URL stamped with the time it was stored.
type CachedMedia struct {
	Data      string `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// NewCachedMedia stamps data with now in milliseconds.
func NewCachedMedia(data string, now time.Time) CachedMedia {
	return CachedMedia{Data: data, Timestamp: now.UnixMilli()}
}

// Fresh reports whether the entry is at most ttl old at now.
func (c CachedMedia) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(time.UnixMilli(c.Timestamp)) <= ttl
}
