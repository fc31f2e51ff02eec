package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/reelgrab/reel-downloader/internal/config"
	"github.com/reelgrab/reel-downloader/internal/model"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings *config.Settings
	window   fyne.Window
	dialog   *dialog.ConfirmDialog
	onSaved  func()

	// UI components
	downloadDirEntry *widget.Entry
	engineSelect     *widget.Select
	assetChecks      map[model.AssetType]*widget.Check
	maxParallelEntry *widget.Entry
	languageEntry    *widget.Entry
	modelPathEntry   *widget.Entry
	autoRevealCheck  *widget.Check
}

// ShowSettingsDialog creates and shows the settings dialog. onSaved runs
// after a confirmed save so the caller can apply the new values.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, onSaved func()) {
	sd := NewSettingsDialog(settings, window, onSaved)
	sd.Show()
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:    settings,
		window:      window,
		onSaved:     onSaved,
		assetChecks: make(map[model.AssetType]*widget.Check),
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	// Download directory selection
	sd.downloadDirEntry = widget.NewEntry()
	sd.downloadDirEntry.SetPlaceHolder("Session root directory")

	browseDirBtn := widget.NewButton("Browse", sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	// Preferred engine
	sd.engineSelect = widget.NewSelect(sd.settings.GetPreferredEngineOptions(), nil)

	// Default asset selection
	assetRow := container.NewHBox()
	for _, t := range model.AllAssetTypes {
		check := widget.NewCheck(string(t), nil)
		sd.assetChecks[t] = check
		assetRow.Add(check)
	}

	// Max parallel downloads
	sd.maxParallelEntry = widget.NewEntry()
	sd.maxParallelEntry.SetPlaceHolder("1-4")

	// Transcript language hint
	sd.languageEntry = widget.NewEntry()
	sd.languageEntry.SetPlaceHolder("auto")

	// Speech recognition model path
	sd.modelPathEntry = widget.NewEntry()
	sd.modelPathEntry.SetPlaceHolder("Path to speech model file")

	browseModelBtn := widget.NewButton("Browse", sd.onBrowseModelFile)
	modelPathRow := container.NewBorder(nil, nil, nil, browseModelBtn, sd.modelPathEntry)

	sd.autoRevealCheck = widget.NewCheck("Reveal folder when a download finishes", nil)

	form := container.NewVBox(
		widget.NewLabel("Download Settings"),
		widget.NewSeparator(),

		widget.NewLabel("Session Root Directory:"),
		downloadDirRow,

		widget.NewLabel("Preferred Engine:"),
		sd.engineSelect,

		widget.NewLabel("Default Assets:"),
		assetRow,

		widget.NewLabel("Max Parallel Downloads:"),
		sd.maxParallelEntry,

		widget.NewSeparator(),
		widget.NewLabel("Transcription Settings"),
		widget.NewSeparator(),

		widget.NewLabel("Language (auto for detection):"),
		sd.languageEntry,

		widget.NewLabel("Speech Model File:"),
		modelPathRow,

		widget.NewSeparator(),
		sd.autoRevealCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(
		"Settings",
		"Save",
		"Cancel",
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(520, 480))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.engineSelect.SetSelected(sd.settings.GetPreferredEngine())
	defaults := sd.settings.GetDefaultAssets()
	for t, check := range sd.assetChecks {
		check.SetChecked(defaults.Has(t))
	}
	sd.maxParallelEntry.SetText(strconv.Itoa(sd.settings.GetMaxParallelDownloads()))
	sd.languageEntry.SetText(sd.settings.GetTranscriptLanguage())
	sd.modelPathEntry.SetText(sd.settings.GetTranscriptionModelPath())
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onBrowseModelFile handles model file browsing
func (sd *SettingsDialog) onBrowseModelFile() {
	dialog.ShowFileOpen(func(uri fyne.URIReadCloser, err error) {
		if err != nil || uri == nil {
			return
		}
		defer uri.Close()
		sd.modelPathEntry.SetText(uri.URI().Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}

	if sd.engineSelect.Selected != "" {
		sd.settings.SetPreferredEngine(sd.engineSelect.Selected)
	}

	assets := model.NewAssetSet()
	for t, check := range sd.assetChecks {
		if check.Checked {
			assets[t] = true
		}
	}
	sd.settings.SetDefaultAssets(assets)

	if text := sd.maxParallelEntry.Text; text != "" {
		if maxParallel, err := strconv.Atoi(text); err == nil {
			sd.settings.SetMaxParallelDownloads(maxParallel)
		}
	}

	sd.settings.SetTranscriptLanguage(sd.languageEntry.Text)
	sd.settings.SetTranscriptionModelPath(sd.modelPathEntry.Text)
	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)

	if sd.onSaved != nil {
		sd.onSaved()
	}

	dialog.ShowInformation("Settings", "Settings saved", sd.window)
}
