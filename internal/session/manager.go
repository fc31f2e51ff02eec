package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/reelgrab/reel-downloader/internal/model"
)

// Folder naming constants
const (
	SessionPrefix      = "session_"
	SessionTimeFormat  = "20060102_150405"
	RecordSlugMaxLen   = 40
	FolderPermissions  = 0755
	MaxCollisionProbes = 1000
)

// Manager creates and owns the per-run session folder and allocates one
// subfolder per record. Allocation is idempotent: asking twice for the same
// record returns the same path.
type Manager struct {
	baseDir string
	now     func() time.Time

	mu        sync.Mutex
	session   *model.Session
	allocated map[string]string // record ID to folder path
	sequence  int
}

// NewManager creates a session manager rooted at baseDir
func NewManager(baseDir string) *Manager {
	return &Manager{
		baseDir:   baseDir,
		now:       time.Now,
		allocated: make(map[string]string),
	}
}

// StartSession creates a timestamped folder under the base directory and
// returns the new session. A folder name collision within the same second
// is resolved with a numeric suffix.
func (m *Manager) StartSession() (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	started := m.now()
	name := SessionPrefix + started.Format(SessionTimeFormat)

	root, err := createUniqueDir(m.baseDir, name)
	if err != nil {
		return nil, fmt.Errorf("create session folder: %w", err)
	}

	m.session = &model.Session{
		ID:         filepath.Base(root),
		RootFolder: root,
		StartedAt:  started,
	}
	m.allocated = make(map[string]string)
	m.sequence = 0
	return m.session, nil
}

// Current returns the active session, or nil before StartSession
func (m *Manager) Current() *model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// AllocateRecordFolder creates and returns the record's subfolder inside the
// session root. The name is derived from a URL slug, falling back to the
// record's sequence position; collisions get a numeric suffix.
func (m *Manager) AllocateRecordFolder(record *model.AssetRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return "", fmt.Errorf("no active session")
	}

	if path, ok := m.allocated[record.ID]; ok {
		return path, nil
	}

	m.sequence++
	name := Slug(record.SourceURL)
	if name == "" {
		name = fmt.Sprintf("reel%d", m.sequence)
	}

	path, err := createUniqueDir(m.session.RootFolder, name)
	if err != nil {
		return "", fmt.Errorf("create record folder: %w", err)
	}

	m.allocated[record.ID] = path
	m.session.AddRecord(record)
	return path, nil
}

// createUniqueDir makes a directory named name under parent, probing numeric
// suffixes until a non-colliding name is found
func createUniqueDir(parent, name string) (string, error) {
	if err := os.MkdirAll(parent, FolderPermissions); err != nil {
		return "", err
	}

	for probe := 0; probe < MaxCollisionProbes; probe++ {
		candidate := name
		if probe > 0 {
			candidate = fmt.Sprintf("%s_%d", name, probe+1)
		}
		path := filepath.Join(parent, candidate)

		err := os.Mkdir(path, FolderPermissions)
		if err == nil {
			return path, nil
		}
		if !os.IsExist(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("could not find a free name for %s under %s", name, parent)
}

// Slug derives a filesystem-safe folder name from a source URL. Illegal
// characters are replaced, the result is length-capped, and an empty result
// means the caller should fall back to a positional name.
func Slug(sourceURL string) string {
	trimmed := sourceURL
	if idx := strings.IndexAny(trimmed, "?#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	trimmed = strings.TrimRight(trimmed, "/")

	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}

	var b strings.Builder
	for _, r := range trimmed {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	slug := strings.Trim(b.String(), "_")
	if len(slug) > RecordSlugMaxLen {
		slug = slug[:RecordSlugMaxLen]
	}
	return slug
}
