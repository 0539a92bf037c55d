package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"themelab-hq/triton/pkg/theme"
)

// maxFileSize caps how much of a single source file is read. Theme
// files beyond this are almost certainly generated or misplaced assets.
const maxFileSize = 4 << 20

// File is one enumerated theme source file.
type File struct {
	// Path is relative to the theme root, slash-separated.
	Path string

	// Kind is the file's classification in the theme tree.
	Kind theme.FileKind

	// Source is the full file content. Empty when Err is set.
	Source string

	// Err records a read failure for this path. The file is still
	// enumerated so the run can report it and move on.
	Err error
}

// Walk enumerates all validatable files under root, sorted by path.
// Hidden directories (".git" and friends) and paths matching an exclude
// glob are skipped.
//
// A file that cannot be read is returned with its Err field set rather
// than failing the walk; only an unusable root yields an error.
func Walk(root string, exclude []string) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("theme root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("theme root %q is not a directory", root)
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// A lost directory aborts only its own subtree.
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && (strings.HasPrefix(d.Name(), ".") || excluded(rel+"/", exclude)) {
				return fs.SkipDir
			}
			return nil
		}
		if excluded(rel, exclude) {
			return nil
		}

		kind := theme.Classify(rel)
		if !validatable(rel, kind) {
			return nil
		}

		fi, ferr := d.Info()
		if ferr != nil {
			files = append(files, File{Path: rel, Kind: kind, Err: ferr})
			return nil
		}
		if fi.Size() > maxFileSize {
			return nil
		}

		data, rerr := os.ReadFile(path)
		if rerr != nil {
			// One unreadable file must not kill the run; record the
			// failure and keep walking.
			files = append(files, File{Path: rel, Kind: kind, Err: rerr})
			return nil
		}
		files = append(files, File{Path: rel, Kind: kind, Source: string(data)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking theme: %w", err)
	}

	sort.Slice(files, func(a, b int) bool { return files[a].Path < files[b].Path })
	return files, nil
}

// validatable reports whether the pipeline understands this file.
// Liquid sources always qualify; JSON qualifies for templates, locales,
// and theme config.
func validatable(path string, kind theme.FileKind) bool {
	if theme.IsLiquid(path) {
		return kind != theme.KindUnknown && kind != theme.KindAsset
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		switch kind {
		case theme.KindTemplate, theme.KindLocale, theme.KindConfig:
			return true
		}
	}
	return false
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := filepath.Match(p, rel); err == nil && ok {
			return true
		}
		// Also match against the basename so "*.bak" works anywhere.
		if ok, err := filepath.Match(p, filepath.Base(strings.TrimSuffix(rel, "/"))); err == nil && ok {
			return true
		}
	}
	return false
}
