package config

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/reelgrab/reel-downloader/internal/engine"
	"github.com/reelgrab/reel-downloader/internal/model"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestDownloadDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	dir := settings.GetDownloadDirectory()
	if dir == "" {
		t.Error("Download directory should not be empty")
	}

	// Test setting custom value
	customDir := "/custom/downloads"
	settings.SetDownloadDirectory(customDir)

	retrievedDir := settings.GetDownloadDirectory()
	if retrievedDir != customDir {
		t.Errorf("Expected download directory %s, got %s", customDir, retrievedDir)
	}
}

func TestPreferredEngine(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	name := settings.GetPreferredEngine()
	if name != DefaultPreferredEngine {
		t.Errorf("Expected default engine %s, got %s", DefaultPreferredEngine, name)
	}

	// Test setting custom value
	settings.SetPreferredEngine(engine.NameDirect)
	if got := settings.GetPreferredEngine(); got != engine.NameDirect {
		t.Errorf("Expected engine %s, got %s", engine.NameDirect, got)
	}

	// Unknown names fall back to the default
	settings.SetPreferredEngine("bogus")
	if got := settings.GetPreferredEngine(); got != DefaultPreferredEngine {
		t.Errorf("Unknown engine should fall back to %s, got %s", DefaultPreferredEngine, got)
	}
}

func TestGetPreferredEngineOptions(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	options := settings.GetPreferredEngineOptions()
	if len(options) != 2 {
		t.Fatalf("Expected 2 engine options, got %d", len(options))
	}
	if options[0] != engine.NameYTDLP || options[1] != engine.NameDirect {
		t.Errorf("Unexpected engine options: %v", options)
	}
}

func TestDefaultAssets(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	assets := settings.GetDefaultAssets()
	if !assets.Has(model.AssetVideo) || !assets.Has(model.AssetThumbnail) || !assets.Has(model.AssetCaption) {
		t.Errorf("Expected default assets %s, got %s", DefaultAssets, assets)
	}
	if assets.Has(model.AssetAudio) || assets.Has(model.AssetTranscript) {
		t.Errorf("Audio and transcript should not be preselected, got %s", assets)
	}

	// Test setting custom value
	custom := model.NewAssetSet(model.AssetVideo, model.AssetTranscript)
	settings.SetDefaultAssets(custom)

	retrieved := settings.GetDefaultAssets()
	if retrieved.Len() != 2 || !retrieved.Has(model.AssetVideo) || !retrieved.Has(model.AssetTranscript) {
		t.Errorf("Expected assets %s, got %s", custom, retrieved)
	}

	// Empty selection defaults back
	settings.SetDefaultAssets(model.NewAssetSet())
	retrieved = settings.GetDefaultAssets()
	if retrieved.Len() != DefaultAssets.Len() {
		t.Errorf("Empty selection should default to %s, got %s", DefaultAssets, retrieved)
	}
}

func TestMaxParallelDownloads(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	maxParallel := settings.GetMaxParallelDownloads()
	if maxParallel != DefaultMaxParallel {
		t.Errorf("Expected default max parallel %d, got %d", DefaultMaxParallel, maxParallel)
	}

	// Test setting custom value
	settings.SetMaxParallelDownloads(3)
	if got := settings.GetMaxParallelDownloads(); got != 3 {
		t.Errorf("Expected max parallel 3, got %d", got)
	}

	// Test boundary values
	settings.SetMaxParallelDownloads(0) // Should be clamped to 1
	if settings.GetMaxParallelDownloads() != 1 {
		t.Error("Max parallel should be clamped to minimum 1")
	}

	settings.SetMaxParallelDownloads(15) // Should be clamped to 4
	if settings.GetMaxParallelDownloads() != 4 {
		t.Error("Max parallel should be clamped to maximum 4")
	}
}

func TestTranscriptLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	lang := settings.GetTranscriptLanguage()
	if lang != DefaultTranscriptLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultTranscriptLanguage, lang)
	}

	// Test setting custom value
	settings.SetTranscriptLanguage("en")
	if got := settings.GetTranscriptLanguage(); got != "en" {
		t.Errorf("Expected language 'en', got %s", got)
	}

	// Empty resets to automatic detection
	settings.SetTranscriptLanguage("")
	if got := settings.GetTranscriptLanguage(); got != DefaultTranscriptLanguage {
		t.Errorf("Empty language should default to %s, got %s", DefaultTranscriptLanguage, got)
	}
}

func TestTranscriptionModelPath(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if path := settings.GetTranscriptionModelPath(); path != "" {
		t.Errorf("Expected empty model path by default, got %s", path)
	}

	settings.SetTranscriptionModelPath("/models/ggml-base.bin")
	if got := settings.GetTranscriptionModelPath(); got != "/models/ggml-base.bin" {
		t.Errorf("Expected model path '/models/ggml-base.bin', got %s", got)
	}
}

func TestAutoRevealOnComplete(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetAutoRevealOnComplete() != DefaultAutoRevealComplete {
		t.Errorf("Expected default auto reveal %v", DefaultAutoRevealComplete)
	}

	settings.SetAutoRevealOnComplete(true)
	if !settings.GetAutoRevealOnComplete() {
		t.Error("Expected auto reveal to be enabled after setting")
	}
}
