package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempFilePrefix marks in-progress writes. The watcher ignores these files.
const TempFilePrefix = ".faitout-tmp-"

// WriteFileAtomic replaces filename with data. Readers see either the old
// file or the complete new one; after a crash the old file is intact and
// at worst a temp file is left in the same directory.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(filename)

	tmp, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	staged := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(staged)
		}
	}()

	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("set mode on %s: %w", staged, err)
	}
	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", staged, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", staged, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", staged, err)
	}
	if err = os.Rename(staged, filename); err != nil {
		return fmt.Errorf("replace %s: %w", filename, err)
	}

	syncDir(dir)
	return nil
}

// syncDir makes the rename durable. Some platforms cannot sync a
// directory; that is not an error.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
