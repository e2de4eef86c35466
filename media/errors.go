package media

import (
	"errors"
	"fmt"
)

// ErrUnsupportedSource is returned for a source kind the fetcher cannot handle.
var ErrUnsupportedSource = errors.New("unsupported source")

// FetchError reports a failed retrieval. Op is "probe" or "download".
type FetchError struct {
	Op  string
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
