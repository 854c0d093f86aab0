package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// JSONFileName is the export name for the full-run JSON document.
const JSONFileName = "category_analysis.json"

// Export writes the selected formats under dir and returns the paths
// written, sorted. The csv format produces one file per category; xlsx
// and json produce one file per run. The files are independent outputs,
// so they are written concurrently; the first failure stops the export.
func Export(dir string, meta Meta, reps []*CategoryReport, formats []string) ([]string, error) {
	if len(reps) == 0 {
		return nil, nil
	}

	var group errgroup.Group
	var mu sync.Mutex
	var written []string
	record := func(path string) {
		mu.Lock()
		written = append(written, path)
		mu.Unlock()
	}

	seen := make(map[string]bool, len(formats))
	for _, format := range formats {
		if seen[format] {
			continue
		}
		seen[format] = true

		switch format {
		case "csv":
			for _, rep := range reps {
				group.Go(func() error {
					path := filepath.Join(dir, CSVFileName(rep.Summary.Category))
					if err := writeFile(path, func(w io.Writer) error { return WriteCSV(w, rep) }); err != nil {
						return err
					}
					record(path)
					return nil
				})
			}
		case "xlsx":
			group.Go(func() error {
				path := filepath.Join(dir, XLSXFileName)
				if err := writeFile(path, func(w io.Writer) error { return WriteXLSX(w, meta, reps) }); err != nil {
					return err
				}
				record(path)
				return nil
			})
		case "json":
			group.Go(func() error {
				path := filepath.Join(dir, JSONFileName)
				if err := writeFile(path, func(w io.Writer) error { return WriteJSON(w, meta, reps) }); err != nil {
					return err
				}
				record(path)
				return nil
			})
		default:
			return nil, fmt.Errorf("unknown export format %q", format)
		}
	}

	if err := group.Wait(); err != nil {
		return written, err
	}
	sort.Strings(written)
	return written, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
