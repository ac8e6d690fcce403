package database

type HistoryRepository interface {
	IsRecorded(path string) (bool, error)
	Record(download Download) error
	Count() (int, error)
}
