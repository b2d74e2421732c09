// =============================================================================
// ojsconvert - File Utilities
// =============================================================================
//
// Shared filesystem helpers. WriteFileAtomic is what keeps failed runs from
// leaving half-written output behind: bytes land in a uniquely named
// temporary file in the destination directory and are renamed into place
// only once fully written.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WriteFileAtomic writes data to path via a temporary file and rename.
// On any error the temporary file is removed and the destination is left
// untouched.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Same directory as the destination so the rename never crosses a
	// filesystem boundary.
	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.New().String()+".tmp")

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	return nil
}
