// Package lastrequest persists the most recently compiled listing request so
// it can be compiled again without retyping it.
package lastrequest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aidanlsb/sift/internal/atomicfile"
	"github.com/aidanlsb/sift/internal/query"
)

// FileName is the state file written inside the state directory.
const FileName = "last-request.json"

// ErrNoLastRequest is returned by Read when nothing has been saved yet.
var ErrNoLastRequest = errors.New("no last request available")

// LastRequest is one compiled request and when it was compiled.
type LastRequest struct {
	Entity    string        `json:"entity"`
	Request   query.Request `json:"request"`
	Timestamp time.Time     `json:"timestamp"`
}

// Path returns the state file location under dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Write saves lr, replacing any earlier request.
func Write(dir string, lr *LastRequest) error {
	data, err := json.MarshalIndent(lr, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal last request: %w", err)
	}
	if err := atomicfile.WriteFile(Path(dir), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write last request: %w", err)
	}
	return nil
}

// Read loads the saved request.
func Read(dir string) (*LastRequest, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoLastRequest
		}
		return nil, fmt.Errorf("failed to read last request: %w", err)
	}

	var lr LastRequest
	if err := json.Unmarshal(data, &lr); err != nil {
		return nil, fmt.Errorf("failed to parse last request: %w", err)
	}
	if lr.Entity == "" {
		return nil, fmt.Errorf("failed to parse last request: missing entity")
	}
	return &lr, nil
}
