package tasks

import (
	"cmp"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/lysyi3m/feedgrab/app/download"
	"github.com/lysyi3m/feedgrab/app/feed"
)

const (
	noDescription = "No description available"
	unknownDate   = "Unknown date"
)

// Reporter writes the operator-facing status lines. Progress is rewritten in
// place with a carriage return until the item's result is printed.
type Reporter struct {
	w            io.Writer
	progressOpen bool
}

func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

func (r *Reporter) Header(feedURL, destination string, blockSize int) {
	fmt.Fprintf(r.w, "Feed URL: %s\nDestination: %s\nBlocksize: %d\n\n", feedURL, destination, blockSize)
}

func (r *Reporter) Item(item feed.Item, path string) {
	r.endProgress()
	fmt.Fprintf(r.w, "title: %s %s\n", item.Title, cmp.Or(item.Published, unknownDate))
	fmt.Fprintf(r.w, "description: %s\n", cmp.Or(item.Description, noDescription))
	fmt.Fprintf(r.w, "url: %s length: %s type: %s\n", item.EnclosureURL, humanizeLength(item.EnclosureLength), item.EnclosureType)
	fmt.Fprintln(r.w, path)
}

func (r *Reporter) Progress(p download.Progress) {
	r.progressOpen = true
	fmt.Fprintf(r.w, "\rcompleted %s %3.2f%%                    ", humanizeLength(p.BytesWritten), p.Percent)
}

func (r *Reporter) Result(result download.Result) {
	r.endProgress()
	switch result.Status {
	case download.StatusSkipped:
		fmt.Fprintf(r.w, "%s skipped\n\n", result.Path)
	default:
		fmt.Fprintf(r.w, "%s %.2f%%\n\n", result.Path, result.Percent)
	}
}

// Marked reports an item passed over by --skip. Only a recorded item is
// reported as marked.
func (r *Reporter) Marked(path string, recorded bool) {
	r.endProgress()
	if !recorded {
		fmt.Fprintf(r.w, "%s not downloaded (--skip)\n\n", path)
		return
	}
	fmt.Fprintf(r.w, "%s marked as downloaded\n\n", path)
}

func (r *Reporter) Failure(result download.Result, err error) {
	r.endProgress()
	var transportErr *download.TransportError
	if errors.As(err, &transportErr) && transportErr.BytesWritten > 0 {
		fmt.Fprintf(r.w, "%s failed after %s (%.2f%%): %v\n\n", result.Path, humanizeLength(transportErr.BytesWritten), result.Percent, err)
		return
	}
	fmt.Fprintf(r.w, "%s failed: %v\n\n", result.Path, err)
}

func (r *Reporter) Interrupted() {
	r.endProgress()
	fmt.Fprintln(r.w, "Interrupted, exiting")
}

func (r *Reporter) Fatal(err error) {
	r.endProgress()
	fmt.Fprintf(r.w, "Error: %v\n", err)
}

func (r *Reporter) endProgress() {
	if r.progressOpen {
		fmt.Fprintln(r.w)
		r.progressOpen = false
	}
}

func humanizeLength(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}
