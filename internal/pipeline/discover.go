package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Audio file extensions recognized regardless of the configured format
// (lowercase, with leading dot).
var audioExtensions = map[string]bool{
	".wav":  true,
	".flac": true,
	".mp3":  true,
	".ogg":  true,
	".opus": true,
	".m4a":  true,
	".aac":  true,
	".aif":  true,
	".aiff": true,
	".wma":  true,
}

// Discover walks inputDir and returns the audio files beneath it, sorted
// lexicographically. format (e.g. "wav") is always accepted in addition to
// the built-in extensions. Discover only reads the directory tree.
func Discover(inputDir, format string) ([]string, error) {
	extra := "." + strings.ToLower(strings.TrimPrefix(format, "."))
	var files []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if audioExtensions[ext] || (format != "" && ext == extra) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// treeSize returns the number of regular files under path (or 1 if path is
// a file) and their total size in bytes.
func treeSize(path string) (int, int64, error) {
	var n int
	var total int64
	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		n++
		total += info.Size()
		return nil
	})
	return n, total, err
}
