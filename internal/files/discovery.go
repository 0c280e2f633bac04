package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Sheet extensions understood by the loader
const (
	ExtXLSX = ".xlsx"
	ExtXLS  = ".xls"
	ExtCSV  = ".csv"
)

// SheetExtensions lists every readable extension
var SheetExtensions = []string{ExtXLSX, ExtXLS, ExtCSV}

// lockPrefix marks the owner files Excel keeps next to open workbooks
const lockPrefix = "~$"

// FileInfo describes a discovered sheet
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds sheets relative to a base directory
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery rooted at basePath
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindSheets lists the files of dir whose extension is one of exts,
// newest first. Without exts every readable extension matches. Excel
// lock files and empty files are skipped.
func (d *Discovery) FindSheets(dir string, exts ...string) ([]FileInfo, error) {
	if len(exts) == 0 {
		exts = SheetExtensions
	}
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var sheets []FileInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, lockPrefix) || !hasExtension(name, exts) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() == 0 {
			continue
		}
		sheets = append(sheets, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(sheets, func(i, j int) bool {
		return sheets[i].ModTime.After(sheets[j].ModTime)
	})
	return sheets, nil
}

// LatestSheet returns the newest sheet of dir with one of exts
func (d *Discovery) LatestSheet(dir string, exts ...string) (FileInfo, error) {
	sheets, err := d.FindSheets(dir, exts...)
	if err != nil {
		return FileInfo{}, err
	}
	latest, ok := Latest(sheets)
	if !ok {
		return FileInfo{}, fmt.Errorf("no sheet found in %s", d.resolve(dir))
	}
	return latest, nil
}

// Latest returns the most recently modified file from a list
func Latest(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}
	return latest, true
}

// ModifiedBetween keeps the files modified within [start, end]
func ModifiedBetween(files []FileInfo, start, end time.Time) []FileInfo {
	var filtered []FileInfo
	for _, file := range files {
		if !file.ModTime.Before(start) && !file.ModTime.After(end) {
			filtered = append(filtered, file)
		}
	}
	return filtered
}

func hasExtension(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
