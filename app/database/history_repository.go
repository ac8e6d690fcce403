package database

import (
	"fmt"
	"time"
)

var _ HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo records which destination files have been downloaded or marked.
type HistoryRepo struct {
	db *DB
}

func NewHistoryRepository(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) IsRecorded(path string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM downloads WHERE path = ?`, path).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check download history: %w", err)
	}
	return count > 0, nil
}

// Record inserts or refreshes the history row for download.Path.
func (r *HistoryRepo) Record(download Download) error {
	if download.RecordedAt.IsZero() {
		download.RecordedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(`
		INSERT INTO downloads (path, guid, title, enclosure_url, bytes_written, run_id, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET
			guid = excluded.guid,
			title = excluded.title,
			enclosure_url = excluded.enclosure_url,
			bytes_written = excluded.bytes_written,
			run_id = excluded.run_id,
			recorded_at = excluded.recorded_at
	`, download.Path, download.GUID, download.Title, download.EnclosureURL,
		download.BytesWritten, download.RunID, download.RecordedAt)

	if err != nil {
		return fmt.Errorf("failed to record download: %w", err)
	}

	return nil
}

func (r *HistoryRepo) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM downloads").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get download count: %w", err)
	}
	return count, nil
}
