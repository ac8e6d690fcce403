package download

// Status is the outcome of a download that did not fail.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
)

const (
	DefaultBlockSize = 1048576
	FileExtension    = ".mp4"
)

// Progress is observed after every chunk written to disk. Percent is relative
// to the feed's declared length and may exceed 100.
type Progress struct {
	BytesWritten int64
	Percent      float64
}

type Result struct {
	Status       Status
	Path         string
	BytesWritten int64
	Percent      float64
}

// Observer receives progress in the order chunks are written.
type Observer func(Progress)
