package database

import (
	"time"
)

// Download is one row of the download history, keyed by destination path.
type Download struct {
	Path         string
	GUID         string
	Title        string
	EnclosureURL string
	BytesWritten int64 // 0 when the item was only marked, not fetched
	RunID        string
	RecordedAt   time.Time
}
