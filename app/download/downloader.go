package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/lysyi3m/feedgrab/app/feed"
)

// ErrStalled is the cancellation cause when a response body produces no data
// within the stall timeout.
var ErrStalled = errors.New("download stalled")

type Downloader struct {
	httpClient   *http.Client
	dir          string
	blockSize    int
	userAgent    string
	stallTimeout time.Duration
}

// NewDownloader creates a Downloader writing into dir. A non-positive
// blockSize falls back to DefaultBlockSize; a zero stallTimeout disables the
// stall watchdog.
func NewDownloader(httpClient *http.Client, dir string, blockSize int, userAgent string, stallTimeout time.Duration) *Downloader {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	return &Downloader{
		httpClient:   httpClient,
		dir:          dir,
		blockSize:    blockSize,
		userAgent:    userAgent,
		stallTimeout: stallTimeout,
	}
}

// EnsureDir creates the destination directory when missing and checks that
// files can be created in it.
func (d *Downloader) EnsureDir() error {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return &FilesystemError{Op: "create directory", Path: d.dir, Err: err}
	}

	check, err := os.CreateTemp(d.dir, ".feedgrab-*")
	if err != nil {
		return &FilesystemError{Op: "write to", Path: d.dir, Err: err}
	}
	check.Close()
	os.Remove(check.Name())

	return nil
}

func (d *Downloader) TargetPath(item feed.Item) string {
	return filepath.Join(d.dir, feed.Sanitize(item.Title)+FileExtension)
}

// Run streams the item's enclosure into TargetPath. An existing target is
// never touched and yields StatusSkipped without any request being made.
// Partially written files are left in place on failure.
func (d *Downloader) Run(ctx context.Context, item feed.Item, observe Observer) (Result, error) {
	path := d.TargetPath(item)

	if _, err := os.Stat(path); err == nil {
		slog.Debug("Target already present, skipping", "path", path)
		return Result{Status: StatusSkipped, Path: path}, nil
	} else if !os.IsNotExist(err) {
		return Result{Path: path}, &FilesystemError{Op: "stat", Path: path, Err: err}
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var watchdog *stallWatchdog
	if d.stallTimeout > 0 {
		watchdog = newStallWatchdog(d.stallTimeout, func() { cancel(ErrStalled) })
		defer watchdog.stop()
	}

	resp, err := d.request(ctx, item.EnclosureURL)
	if err != nil {
		var transportErr *TransportError
		if cause := context.Cause(ctx); cause != nil && errors.As(err, &transportErr) {
			transportErr.Err = cause
		}
		return Result{Path: path}, err
	}
	defer resp.Body.Close()

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return Result{Status: StatusSkipped, Path: path}, nil
		}
		return Result{Path: path}, &FilesystemError{Op: "create", Path: path, Err: err}
	}
	defer file.Close()

	var body io.Reader = resp.Body
	if watchdog != nil {
		watchdog.touch()
		body = watchdog.watch(resp.Body)
	}

	written, percent, err := d.copyChunks(file, body, item.EnclosureLength, observe)
	if err != nil {
		var fsErr *FilesystemError
		if errors.As(err, &fsErr) {
			fsErr.Path = path
			return Result{Path: path, BytesWritten: written, Percent: percent}, err
		}
		if cause := context.Cause(ctx); cause != nil {
			err = cause
		}
		return Result{Path: path, BytesWritten: written, Percent: percent},
			&TransportError{URL: item.EnclosureURL, BytesWritten: written, Err: err}
	}

	if err := file.Close(); err != nil {
		return Result{Path: path, BytesWritten: written, Percent: percent}, &FilesystemError{Op: "close", Path: path, Err: err}
	}

	return Result{Status: StatusCompleted, Path: path, BytesWritten: written, Percent: percent}, nil
}

func (d *Downloader) request(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP error: %s", resp.Status)}
	}

	return resp, nil
}

// copyChunks moves body into w blockSize bytes at a time and reports progress
// after each chunk. Only the final chunk may be shorter than blockSize.
func (d *Downloader) copyChunks(w io.Writer, body io.Reader, declaredLength int64, observe Observer) (int64, float64, error) {
	buf := make([]byte, d.blockSize)
	var written int64
	var percent float64

	for {
		n, readErr := readChunk(body, buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return written, percent, &FilesystemError{Op: "write", Err: err}
			}
			written += int64(n)
			percent = Percent(written, declaredLength)
			if observe != nil {
				observe(Progress{BytesWritten: written, Percent: percent})
			}
		}

		if readErr == io.EOF {
			return written, percent, nil
		}
		if readErr != nil {
			return written, percent, readErr
		}
	}
}

// Percent is 100*written/max(declaredLength, 1), unclamped.
func Percent(written, declaredLength int64) float64 {
	return 100.0 * float64(written) / float64(max(declaredLength, 1))
}

// readChunk fills buf unless the reader ends or fails first.
func readChunk(r io.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

