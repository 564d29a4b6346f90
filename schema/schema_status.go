package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// MigrationStatus represents the schema version of the sales database.
type MigrationStatus struct {
	Backend string `json:"backend"`
	Version uint   `json:"version"`
	Dirty   bool   `json:"dirty"`
}
