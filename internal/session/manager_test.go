package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/reelgrab/reel-downloader/internal/model"
)

func TestStartSessionCreatesFolder(t *testing.T) {
	base := t.TempDir()
	m := NewManager(base)

	session, err := m.StartSession()
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	if !strings.HasPrefix(session.ID, SessionPrefix) {
		t.Errorf("Expected session ID with prefix %s, got %s", SessionPrefix, session.ID)
	}

	info, err := os.Stat(session.RootFolder)
	if err != nil {
		t.Fatalf("Session root does not exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("Session root is not a directory")
	}
}

func TestStartSessionCollisionSuffix(t *testing.T) {
	base := t.TempDir()
	fixed := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)

	m := NewManager(base)
	m.now = func() time.Time { return fixed }

	first, err := m.StartSession()
	if err != nil {
		t.Fatalf("First StartSession: %v", err)
	}
	second, err := m.StartSession()
	if err != nil {
		t.Fatalf("Second StartSession: %v", err)
	}
	third, err := m.StartSession()
	if err != nil {
		t.Fatalf("Third StartSession: %v", err)
	}

	if first.RootFolder == second.RootFolder || second.RootFolder == third.RootFolder {
		t.Errorf("Expected unique folders, got %s, %s, %s",
			first.RootFolder, second.RootFolder, third.RootFolder)
	}
	if !strings.HasSuffix(second.ID, "_2") {
		t.Errorf("Expected numeric suffix on colliding session, got %s", second.ID)
	}
}

func TestAllocateRecordFolderIdempotent(t *testing.T) {
	m := NewManager(t.TempDir())
	if _, err := m.StartSession(); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	record := &model.AssetRecord{ID: "r1", SourceURL: "https://www.instagram.com/reel/AbC123/"}

	first, err := m.AllocateRecordFolder(record)
	if err != nil {
		t.Fatalf("First allocation: %v", err)
	}
	second, err := m.AllocateRecordFolder(record)
	if err != nil {
		t.Fatalf("Second allocation: %v", err)
	}

	if first != second {
		t.Errorf("Expected idempotent allocation, got %s then %s", first, second)
	}
	if _, err := os.Stat(first); err != nil {
		t.Errorf("Allocated folder does not exist: %v", err)
	}
}

func TestAllocateRecordFolderCollision(t *testing.T) {
	m := NewManager(t.TempDir())
	session, err := m.StartSession()
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	// Two records with the same URL slug must get distinct folders
	a := &model.AssetRecord{ID: "a", SourceURL: "https://www.instagram.com/reel/Same1/"}
	b := &model.AssetRecord{ID: "b", SourceURL: "https://www.instagram.com/reel/Same1/"}

	pathA, err := m.AllocateRecordFolder(a)
	if err != nil {
		t.Fatalf("Allocate a: %v", err)
	}
	pathB, err := m.AllocateRecordFolder(b)
	if err != nil {
		t.Fatalf("Allocate b: %v", err)
	}

	if pathA == pathB {
		t.Errorf("Expected distinct folders for distinct records, got %s twice", pathA)
	}
	if filepath.Dir(pathA) != session.RootFolder {
		t.Errorf("Record folder %s is outside the session root %s", pathA, session.RootFolder)
	}
	if session.RecordCount() != 2 {
		t.Errorf("Expected 2 records tracked, got %d", session.RecordCount())
	}
}

func TestAllocateRecordFolderWithoutSession(t *testing.T) {
	m := NewManager(t.TempDir())
	record := &model.AssetRecord{ID: "r1", SourceURL: "https://www.instagram.com/reel/AbC/"}

	if _, err := m.AllocateRecordFolder(record); err == nil {
		t.Error("Expected error when allocating before StartSession")
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.instagram.com/reel/AbC123/", "AbC123"},
		{"https://www.instagram.com/reel/AbC123/?igsh=xyz", "AbC123"},
		{"https://www.instagram.com/p/X.y:z/", "X_y_z"},
		{"https://example.com/" + strings.Repeat("a", 100), strings.Repeat("a", RecordSlugMaxLen)},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slug(tt.url); got != tt.want {
			t.Errorf("Slug(%q): expected %q, got %q", tt.url, tt.want, got)
		}
	}
}

func TestSlugFallbackPositionalName(t *testing.T) {
	m := NewManager(t.TempDir())
	if _, err := m.StartSession(); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	record := &model.AssetRecord{ID: "odd", SourceURL: "////"}
	path, err := m.AllocateRecordFolder(record)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if filepath.Base(path) != "reel1" {
		t.Errorf("Expected positional fallback name reel1, got %s", filepath.Base(path))
	}
}
