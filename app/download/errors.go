package download

import "fmt"

// TransportError reports a failed enclosure request or a stream that broke
// mid-transfer. BytesWritten is what reached the file before the failure.
type TransportError struct {
	URL          string
	StatusCode   int
	BytesWritten int64
	Err          error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to download %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to download %s after %d bytes: %v", e.URL, e.BytesWritten, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FilesystemError reports a failure to create or write the destination file.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
