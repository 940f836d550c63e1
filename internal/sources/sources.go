package sources

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-hclog"
)

// File is one collected source file.
type File struct {
	Path    string
	Content []byte
}

// Options control which files Collect picks up.
type Options struct {
	// Include and Exclude are globs over the slash-separated path relative to
	// the root. A pattern starting with "**/" also matches at the top level.
	Include []string
	Exclude []string
	// MaxFileSize skips larger files. Zero means no limit.
	MaxFileSize int64
	// RelativePaths reports paths relative to the root instead of joined to it.
	RelativePaths bool
}

type patterns []glob.Glob

func compile(list []string) (patterns, error) {
	compiled := make(patterns, 0, len(list))
	for _, p := range list {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", p, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

func (ps patterns) match(rel string) bool {
	for _, g := range ps {
		if g.Match(rel) || g.Match("/"+rel) {
			return true
		}
	}
	return false
}

// Collect returns the files below root selected by opts, in lexical path order.
// A root that is itself a regular file is returned as is, without filtering.
// Unreadable entries below the root are logged and skipped.
func Collect(root string, opts Options, logger hclog.Logger) ([]File, error) {
	include, err := compile(opts.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compile(opts.Exclude)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access scan root %q: %w", root, err)
	}
	if !info.IsDir() {
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("scan root %q is not a regular file or directory", root)
		}
		content, err := os.ReadFile(root)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", root, err)
		}
		path := root
		if opts.RelativePaths {
			path = filepath.Base(root)
		}
		return []File{{Path: path, Content: content}}, nil
	}

	var collected []File
	skipped := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if exclude.match(rel + "/") {
				logger.Trace("excluded directory", "path", rel)
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !include.match(rel) || exclude.match(rel) {
			return nil
		}

		if opts.MaxFileSize > 0 {
			fi, err := d.Info()
			if err != nil {
				logger.Warn("skipping file", "path", rel, "error", err)
				return nil
			}
			if fi.Size() > opts.MaxFileSize {
				logger.Debug("skipping large file", "path", rel, "size", fi.Size(), "limit", opts.MaxFileSize)
				skipped++
				return nil
			}
		}

		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable file", "path", rel, "error", err)
			return nil
		}

		name := path
		if opts.RelativePaths {
			name = rel
		}
		collected = append(collected, File{Path: name, Content: content})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", root, err)
	}

	logger.Debug("sources collected", "root", root, "files", len(collected), "skipped_large", skipped)
	return collected, nil
}
