// Package archive bundles attachment files into a single zip stream.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"time"

	"attachapi/internal/model"
)

// Entry is one file to bundle. Open is called once, while the archive is written.
type Entry struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// Skipped records an entry left out of the archive because its source could not be read.
type Skipped struct {
	Name string
	Err  error
}

// Result describes what ended up in the archive.
type Result struct {
	Names   []string
	Skipped []Skipped
}

// EntryName flattens a stored relative path to the member name used inside the archive.
// Paths that flatten to nothing, "." or ".." yield "".
func EntryName(storedPath string) string {
	name := model.BaseName(storedPath)
	if name == "." || name == ".." {
		return ""
	}
	return name
}

// Write streams entries into w as a zip archive and closes the zip writer (not w).
//
// Member names never contain a directory separator. When two entries flatten to the
// same name the later one replaces the earlier; if the later source cannot be opened
// the next most recent one is used instead. Entries whose source cannot be opened are
// skipped and reported in Result.Skipped; only write failures abort.
func Write(w io.Writer, entries []Entry, modified time.Time) (Result, error) {
	var res Result

	candidates := make(map[string][]int, len(entries))
	for i, e := range entries {
		if name := EntryName(e.Name); name != "" {
			candidates[name] = append(candidates[name], i)
		}
	}

	zw := zip.NewWriter(w)
	for i, e := range entries {
		name := EntryName(e.Name)
		idx := candidates[name]
		if name == "" || idx[len(idx)-1] != i {
			continue
		}

		var src io.ReadCloser
		for j := len(idx) - 1; j >= 0 && src == nil; j-- {
			rc, err := entries[idx[j]].Open()
			if err != nil {
				res.Skipped = append(res.Skipped, Skipped{Name: name, Err: err})
				continue
			}
			src = rc
		}
		if src == nil {
			continue
		}

		hdr := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified}
		dst, err := zw.CreateHeader(hdr)
		if err != nil {
			src.Close()
			return res, fmt.Errorf("add %s: %w", name, err)
		}
		_, err = io.Copy(dst, src)
		src.Close()
		if err != nil {
			return res, fmt.Errorf("copy %s: %w", name, err)
		}
		res.Names = append(res.Names, name)
	}

	if err := zw.Close(); err != nil {
		return res, fmt.Errorf("close archive: %w", err)
	}
	return res, nil
}
