// Package draft saves generated RTI application drafts to disk.
package draft

import (
	"os"
	"path/filepath"

	"github.com/rtiagent/rtichat/internal/errors"
	"github.com/rtiagent/rtichat/internal/logger"
)

// FileName is the name every saved draft is written under.
const FileName = "RTI_Draft.txt"

// DefaultDir returns ~/Downloads when it exists, otherwise the working
// directory.
func DefaultDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		dl := filepath.Join(home, "Downloads")
		if info, err := os.Stat(dl); err == nil && info.IsDir() {
			return dl
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Save writes text verbatim to dir/FileName, replacing any previous draft,
// and returns the path written. An empty dir means DefaultDir.
func Save(dir, text string) (string, error) {
	if text == "" {
		return "", errors.DraftEmpty()
	}
	if dir == "" {
		dir = DefaultDir()
	}

	path := filepath.Join(dir, FileName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.DraftSaveFailed(path, err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", errors.DraftSaveFailed(path, err)
	}

	logger.WithComponent("draft").Info("saved draft", "path", path, "bytes", len(text))
	return path, nil
}
