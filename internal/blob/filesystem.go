package blob

import (
	"physiconf/internal/infra/blob/fs"
)

// NewFilesystem constructs a filesystem-backed blob.Store rooted at the
// provided path. Returns the interface so call sites never depend on the
// concrete implementation.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}
