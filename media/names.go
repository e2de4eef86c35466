package media

import (
	"path/filepath"

	"github.com/google/uuid"
)

// Names hands out temp file paths that never collide between concurrent
// submissions.
type Names struct {
	Dir       string
	Extension string
}

// Next returns a fresh path inside Dir.
func (n Names) Next() string {
	return filepath.Join(n.Dir, uuid.NewString()+n.Extension)
}
