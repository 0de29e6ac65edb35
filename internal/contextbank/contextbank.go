// Package contextbank loads the reference documents injected into LLM prompts.
package contextbank

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Loader reads a directory of reference documents on every call.
type Loader struct {
	Dir string
}

// Load concatenates every .md, .txt and .html file in the directory in name
// order, each under a "--- <file>" header. A missing directory is empty context.
func (l Loader) Load() (string, error) {
	if l.Dir == "" {
		return "", nil
	}

	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read context dir: %w", err)
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".md" && ext != ".txt" && ext != ".html" {
			continue
		}

		b, err := os.ReadFile(filepath.Join(l.Dir, e.Name()))
		if err != nil {
			return "", fmt.Errorf("read context file %s: %w", e.Name(), err)
		}
		content := string(b)
		if ext == ".html" {
			md, err := htmltomarkdown.ConvertString(content)
			if err != nil {
				return "", fmt.Errorf("convert context file %s: %w", e.Name(), err)
			}
			content = strings.TrimSpace(md)
		}
		parts = append(parts, "--- "+e.Name()+"\n"+content)
	}

	return strings.Join(parts, "\n\n"), nil
}
