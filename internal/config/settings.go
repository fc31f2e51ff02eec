package config

import (
	"fyne.io/fyne/v2"

	"github.com/reelgrab/reel-downloader/internal/engine"
	"github.com/reelgrab/reel-downloader/internal/model"
	"github.com/reelgrab/reel-downloader/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_directory"
	KeyPreferredEngine    = "preferred_engine"
	KeyDefaultAssets      = "default_assets"
	KeyMaxParallel        = "max_parallel_downloads"
	KeyTranscriptLanguage = "transcript_language"
	KeyTranscriptionModel = "transcription_model_path"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
)

// Default values
const (
	DefaultPreferredEngine    = engine.NameYTDLP
	DefaultMaxParallel        = 1
	DefaultTranscriptLanguage = "auto"
	DefaultAutoRevealComplete = false
)

// DefaultAssets is the asset selection applied to new records when the
// user has not changed the checkboxes
var DefaultAssets = model.NewAssetSet(model.AssetVideo, model.AssetThumbnail, model.AssetCaption)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the root folder session folders are created in
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = "/tmp/downloads"
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the session root folder
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetPreferredEngine returns the engine tried first for every record
func (s *Settings) GetPreferredEngine() string {
	name := s.app.Preferences().String(KeyPreferredEngine)
	if name != engine.NameYTDLP && name != engine.NameDirect {
		s.SetPreferredEngine(DefaultPreferredEngine)
		return DefaultPreferredEngine
	}
	return name
}

// SetPreferredEngine sets the engine tried first for every record
func (s *Settings) SetPreferredEngine(name string) {
	if name != engine.NameYTDLP && name != engine.NameDirect {
		name = DefaultPreferredEngine
	}
	s.app.Preferences().SetString(KeyPreferredEngine, name)
}

// GetPreferredEngineOptions returns the selectable engine names
func (s *Settings) GetPreferredEngineOptions() []string {
	return []string{engine.NameYTDLP, engine.NameDirect}
}

// GetDefaultAssets returns the asset selection preselected for new records
func (s *Settings) GetDefaultAssets() model.AssetSet {
	stored := s.app.Preferences().String(KeyDefaultAssets)
	set := model.ParseAssetSet(stored)
	if set.Len() == 0 {
		s.SetDefaultAssets(DefaultAssets)
		return DefaultAssets.Clone()
	}
	return set
}

// SetDefaultAssets sets the asset selection preselected for new records
func (s *Settings) SetDefaultAssets(assets model.AssetSet) {
	if assets.Len() == 0 {
		assets = DefaultAssets
	}
	s.app.Preferences().SetString(KeyDefaultAssets, assets.String())
}

// GetMaxParallelDownloads returns the maximum number of records processed at once
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelDownloads(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelDownloads sets the maximum number of records processed at once
func (s *Settings) SetMaxParallelDownloads(count int) {
	if count < 1 {
		count = 1
	}
	if count > 4 {
		count = 4
	}
	s.app.Preferences().SetInt(KeyMaxParallel, count)
}

// GetTranscriptLanguage returns the language hint passed to transcription,
// "auto" for automatic detection
func (s *Settings) GetTranscriptLanguage() string {
	lang := s.app.Preferences().String(KeyTranscriptLanguage)
	if lang == "" {
		s.SetTranscriptLanguage(DefaultTranscriptLanguage)
		return DefaultTranscriptLanguage
	}
	return lang
}

// SetTranscriptLanguage sets the transcription language hint
func (s *Settings) SetTranscriptLanguage(lang string) {
	if lang == "" {
		lang = DefaultTranscriptLanguage
	}
	s.app.Preferences().SetString(KeyTranscriptLanguage, lang)
}

// GetTranscriptionModelPath returns the path of the speech recognition model
// file, empty when none is configured
func (s *Settings) GetTranscriptionModelPath() string {
	return s.app.Preferences().String(KeyTranscriptionModel)
}

// SetTranscriptionModelPath sets the speech recognition model file path
func (s *Settings) SetTranscriptionModelPath(path string) {
	s.app.Preferences().SetString(KeyTranscriptionModel, path)
}

// GetAutoRevealOnComplete returns whether finished records are revealed in
// the file manager automatically
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether finished records are revealed automatically
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}
