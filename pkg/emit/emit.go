// Package emit writes generated JSON snapshots and pages consumed by the site build
package emit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pkgz/lgr"
)

const indent = "    "

// File is a generated file relative to the writer directory
type File struct {
	Name string
	Data []byte
}

// Writer writes files under a base directory, parent directories are created
type Writer struct {
	Dir string
}

// WriteJSON writes v as JSON with 4-space indent and a trailing newline
func (w Writer) WriteJSON(name string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := w.write(name, buf.Bytes()); err != nil {
		return err
	}
	lgr.Printf("[INFO] saved %s", w.path(name))
	return nil
}

// WriteFiles writes every file, failed writes are logged and skipped.
// Returns the number of written files and all write errors joined.
func (w Writer) WriteFiles(files []File) (int, error) {
	var errs []error
	written := 0
	for _, f := range files {
		if err := w.write(f.Name, f.Data); err != nil {
			lgr.Printf("[ERROR] %v", err)
			errs = append(errs, err)
			continue
		}
		lgr.Printf("[DEBUG] saved %s", w.path(f.Name))
		written++
	}
	lgr.Printf("[INFO] saved %d of %d files to %s", written, len(files), w.Dir)
	return written, errors.Join(errs...)
}

func (w Writer) write(name string, data []byte) error {
	path := w.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // generated site content is world readable
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (w Writer) path(name string) string {
	if w.Dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(w.Dir, name)
}
