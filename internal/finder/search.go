// SPDX-License-Identifier: MPL-2.0

package finder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// search walks dir and returns the sorted absolute paths of files whose
// dir-relative slash path matches the doublestar pattern.
func (ws *Workspace) search(ctx context.Context, dir, pattern string) ([]string, error) {
	if ws.searchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ws.searchTimeout)
		defer cancel()
	}

	ws.logger.Debug("executing search", "dir", dir, "pattern", pattern)
	start := time.Now()

	var matches []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if p == dir {
				return walkErr
			}
			ws.logger.Debug("skipping unreadable path", "path", p, "error", walkErr)
			return nil
		}
		if d.IsDir() {
			if p != dir && slices.Contains(ws.excludeDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, p)
		}
		return nil
	})
	if err != nil {
		if ws.searchTimeout > 0 && errors.Is(err, context.DeadlineExceeded) {
			return nil, &SearchTimeoutError{Dir: ws.rel(dir), Pattern: pattern, Timeout: ws.searchTimeout}
		}
		return nil, fmt.Errorf("search %s for %s: %w", ws.rel(dir), pattern, err)
	}

	slices.Sort(matches)
	ws.logger.Debug("search completed", "pattern", pattern, "matches", len(matches), "elapsed", time.Since(start))
	return matches, nil
}

// suffixPattern matches a file whose trailing path segments equal suffix.
func suffixPattern(suffix string) string {
	return "**/" + escapeGlob(suffix)
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`*?[]{}\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
