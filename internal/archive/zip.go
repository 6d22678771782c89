// Package archive assembles the downloadable zip deliverable for a job.
package archive

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/webflowx/exporter/internal/assets"
)

// Build zips the output tree into dest, adds a manifest.json entry describing
// the crawl, and returns the archive size in bytes.
func Build(dir string, manifest assets.Manifest, dest string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, err
	}
	f, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	zw := zip.NewWriter(f)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, src)
		src.Close()
		return err
	})
	if err == nil {
		err = writeJSONEntry(zw, "manifest.json", manifest)
	}
	if closeErr := zw.Close(); err == nil {
		err = closeErr
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("build archive %s: %w", dest, err)
	}
	return size(dest)
}

// EmbedJSON rewrites the archive with one extra JSON entry and returns the
// new size. The zip format cannot append in place.
func EmbedJSON(zipPath, name string, payload any) (int64, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	tmpPath := zipPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, err
	}
	zw := zip.NewWriter(f)

	err = func() error {
		for _, entry := range reader.File {
			if entry.Name == name {
				continue
			}
			w, err := zw.Create(entry.Name)
			if err != nil {
				return err
			}
			rc, err := entry.Open()
			if err != nil {
				return err
			}
			_, err = io.Copy(w, rc)
			rc.Close()
			if err != nil {
				return err
			}
		}
		return writeJSONEntry(zw, name, payload)
	}()
	if closeErr := zw.Close(); err == nil {
		err = closeErr
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("embed %s into %s: %w", name, zipPath, err)
	}
	if err := os.Rename(tmpPath, zipPath); err != nil {
		return 0, err
	}
	return size(zipPath)
}

func writeJSONEntry(zw *zip.Writer, name string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
