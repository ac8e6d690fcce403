package tasks

import (
	"context"

	"github.com/lysyi3m/feedgrab/app/database"
	"github.com/lysyi3m/feedgrab/app/download"
	"github.com/lysyi3m/feedgrab/app/feed"
)

// ItemSource is satisfied by *feed.Source.
type ItemSource interface {
	FetchItems(ctx context.Context, feedURL string) ([]feed.Item, error)
}

// DownloadHistory is satisfied by *database.HistoryRepo. A nil
// DownloadHistory disables history.
type DownloadHistory interface {
	IsRecorded(path string) (bool, error)
	Record(download database.Download) error
}

// ItemDownloader is satisfied by *download.Downloader.
type ItemDownloader interface {
	EnsureDir() error
	TargetPath(item feed.Item) string
	Run(ctx context.Context, item feed.Item, observe download.Observer) (download.Result, error)
}
