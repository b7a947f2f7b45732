// Package hostio loads CompactLog files from disk the way the host CLI
// and API do: with a hard cap on bytes read before JSON ever runs, so a
// hostile or corrupt file can't exhaust memory before validation gets a
// chance to reject it.
package hostio

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kalepail/zkp-pong/internal/engine"
	"github.com/kalepail/zkp-pong/pkg/models"
)

// MaxLogFileBytes caps a CompactLog file's size to prevent unbounded
// memory consumption from a single load request.
const MaxLogFileBytes = 10 * 1024 * 1024 // 10MB

// LoadCompactLogFile reads and parses a CompactLog from path, rejecting
// the file outright if it exceeds MaxLogFileBytes, and rejecting the
// parsed log if its events array exceeds engine.MaxEvents — both checks
// run before any replay is attempted.
func LoadCompactLogFile(path string) (models.CompactLog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.CompactLog{}, fmt.Errorf("hostio: stat %s: %w", path, err)
	}
	if info.Size() > MaxLogFileBytes {
		return models.CompactLog{}, fmt.Errorf("hostio: %s is %d bytes, exceeds %d byte cap", path, info.Size(), MaxLogFileBytes)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return models.CompactLog{}, fmt.Errorf("hostio: read %s: %w", path, err)
	}

	var log models.CompactLog
	if err := json.Unmarshal(raw, &log); err != nil {
		return models.CompactLog{}, fmt.Errorf("hostio: %s is not a valid CompactLog: %w", path, err)
	}
	if len(log.Events) > engine.MaxEvents {
		return models.CompactLog{}, fmt.Errorf("hostio: %s has %d events, exceeds cap of %d", path, len(log.Events), engine.MaxEvents)
	}

	return log, nil
}

// SaveCompactLogFile writes log to path as indented JSON, for CLI
// subcommands that produce a log to hand off to another tool.
func SaveCompactLogFile(path string, log models.CompactLog) error {
	raw, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("hostio: marshal log: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("hostio: write %s: %w", path, err)
	}
	return nil
}
