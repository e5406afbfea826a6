package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionSnapshotKey returns the storage key for an account's persisted
// session snapshot
func (r *CacheKeyStruct) SessionSnapshotKey(subject string) string {
	return fmt.Sprintf("account:%s:session_snapshot", subject)
}

var CacheKey = NewCacheKeyStruct()
