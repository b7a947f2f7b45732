package hostio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kalepail/zkp-pong/pkg/models"
)

func TestLoadCompactLogFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.json")

	want := models.CompactLog{
		V:               1,
		GameID:          7,
		Events:          []string{"100", "200"},
		Commitments:     []string{"aa", "bb"},
		PlayerLeftSeed:  "deadbeef",
		PlayerRightSeed: "cafebabe",
	}
	if err := SaveCompactLogFile(path, want); err != nil {
		t.Fatalf("SaveCompactLogFile: %v", err)
	}

	got, err := LoadCompactLogFile(path)
	if err != nil {
		t.Fatalf("LoadCompactLogFile: %v", err)
	}
	if got.GameID != want.GameID || len(got.Events) != len(want.Events) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestLoadCompactLogFileRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "huge.json")

	oversized := strings.Repeat("x", MaxLogFileBytes+1)
	if err := os.WriteFile(path, []byte(oversized), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadCompactLogFile(path); err == nil {
		t.Fatalf("expected an error for a file over the byte cap")
	}
}

func TestLoadCompactLogFileMissing(t *testing.T) {
	if _, err := LoadCompactLogFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestLoadCompactLogFileMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadCompactLogFile(path); err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
}
