package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/dockworks/pkg/plist"
)

// WriteDocument encodes doc as indented JSON and writes it to w.
func WriteDocument(doc *plist.Dict, w io.Writer) error {
	if err := plist.Encode(w, doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportDocument writes doc to a JSON file at path, replacing it atomically.
func ExportDocument(doc *plist.Dict, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	tmp := f.Name()
	if err := WriteDocument(doc, f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
