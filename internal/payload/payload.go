// ABOUTME: Bundled MathJax rendering page, materialized once to a file:// URI
// ABOUTME: The page exposes the render() entry point the content updater calls

package payload

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "embed"
)

//go:embed xlatex.html
var page []byte

var (
	once     sync.Once
	pageURI  string
	writeErr error
)

// URI returns the file:// URI of the bundled rendering page, writing it
// to a per-process temp file on first call. Subsequent calls return the
// same URI.
func URI() (string, error) {
	once.Do(func() {
		dir, err := os.MkdirTemp("", "org-xlatex-")
		if err != nil {
			writeErr = fmt.Errorf("creating payload dir: %w", err)
			return
		}
		path := filepath.Join(dir, "xlatex.html")
		if err := os.WriteFile(path, page, 0o644); err != nil {
			writeErr = fmt.Errorf("writing payload: %w", err)
			return
		}
		pageURI = "file://" + filepath.ToSlash(path)
	})
	return pageURI, writeErr
}
