package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// Write formats the result and writes it to path atomically. The document
// is staged in a temp file in the target directory and renamed over any
// existing report, so a crash mid-write never leaves a partial file.
// On failure the in-memory result is untouched and the caller may retry.
func Write(path string, f Formatter, r *Result) error {
	var buf bytes.Buffer
	if err := f.Format(&buf, r); err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}

	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return nil
}

// writeFileAtomic writes data to path via a same-directory temp file and
// rename. The temp file must share the target directory so the rename
// stays atomic on one filesystem.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
