package ui

import (
	"fmt"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/reelgrab/reel-downloader/internal/config"
	"github.com/reelgrab/reel-downloader/internal/model"
	"github.com/reelgrab/reel-downloader/internal/platform"
	"github.com/reelgrab/reel-downloader/internal/queue"
)

// AppTitle is the main window title
const AppTitle = "Reel Downloader"

// RootUI represents the main UI structure
type RootUI struct {
	window     fyne.Window
	app        fyne.App
	controller *queue.Controller
	settings   *config.Settings

	urlEntry     *widget.Entry
	addBtn       *widget.Button
	assetChecks  map[model.AssetType]*widget.Check
	engineSelect *widget.Select
	recordList   *widget.List
	statusLabel  *widget.Label

	// Snapshot of the queue rendered by recordList; refreshed on every
	// controller event
	records []*model.AssetRecord
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, controller *queue.Controller, settings *config.Settings) *RootUI {
	ui := &RootUI{
		window:      window,
		app:         app,
		controller:  controller,
		settings:    settings,
		assetChecks: make(map[model.AssetType]*widget.Check),
	}

	window.SetTitle(AppTitle)

	controller.SetPreferredEngine(settings.GetPreferredEngine())
	controller.SetTranscriptLanguage(settings.GetTranscriptLanguage())

	ui.setupUI()
	go ui.consumeEvents()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	// URL entry
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder("Paste a reel, short or video URL")
	ui.urlEntry.Validator = ui.validateURL
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onAddClick()
	}

	ui.addBtn = widget.NewButton("Add to queue", ui.onAddClick)
	ui.addBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	topPanel := container.NewBorder(nil, nil, settingsBtn, ui.addBtn, ui.urlEntry)

	// Asset checkboxes, preselected from settings
	defaults := ui.settings.GetDefaultAssets()
	assetRow := container.NewHBox(widget.NewLabel("Assets:"))
	for _, t := range model.AllAssetTypes {
		asset := t
		check := widget.NewCheck(string(asset), func(bool) {
			ui.settings.SetDefaultAssets(ui.selectedAssets())
		})
		check.SetChecked(defaults.Has(asset))
		ui.assetChecks[asset] = check
		assetRow.Add(check)
	}

	// Preferred engine selector
	ui.engineSelect = widget.NewSelect(ui.settings.GetPreferredEngineOptions(), func(name string) {
		ui.settings.SetPreferredEngine(name)
		ui.controller.SetPreferredEngine(name)
		log.Printf("Preferred engine set to %s", name)
	})
	ui.engineSelect.SetSelected(ui.settings.GetPreferredEngine())
	engineRow := container.NewHBox(widget.NewLabel("Engine:"), ui.engineSelect)

	optionsRow := container.NewHBox(assetRow, widget.NewSeparator(), engineRow)

	// Record list
	ui.recordList = widget.NewList(
		func() int { return len(ui.records) },
		func() fyne.CanvasObject { return ui.createRecordItem() },
		func(id widget.ListItemID, obj fyne.CanvasObject) { ui.updateRecordItem(id, obj) },
	)

	ui.statusLabel = widget.NewLabel("")
	ui.statusLabel.Alignment = fyne.TextAlignLeading

	content := container.NewBorder(
		container.NewVBox(topPanel, optionsRow), // top
		ui.statusLabel,                          // bottom
		nil,                                     // left
		nil,                                     // right
		ui.recordList,                           // center
	)

	ui.window.SetContent(content)
}

// selectedAssets builds the asset set from the current checkbox state
func (ui *RootUI) selectedAssets() model.AssetSet {
	set := model.NewAssetSet()
	for asset, check := range ui.assetChecks {
		if check.Checked {
			set[asset] = true
		}
	}
	return set
}

// validateURL validates the entered URL
func (ui *RootUI) validateURL(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil // Empty is allowed
	}
	if !platform.IsSupportedVideoURL(input) {
		return fmt.Errorf("not a supported video URL")
	}
	return nil
}

// onAddClick handles the add button click
func (ui *RootUI) onAddClick() {
	urlText := strings.TrimSpace(ui.urlEntry.Text)
	if urlText == "" {
		widget.ShowPopUp(widget.NewLabel("Please enter a URL"), ui.window.Canvas())
		return
	}
	if !platform.IsSupportedVideoURL(urlText) {
		widget.ShowPopUp(widget.NewLabel("This URL is not a supported video link"), ui.window.Canvas())
		return
	}

	assets := ui.selectedAssets()
	if assets.Len() == 0 {
		widget.ShowPopUp(widget.NewLabel("Select at least one asset"), ui.window.Canvas())
		return
	}

	record, err := ui.controller.Add(urlText, assets)
	if err != nil {
		if strings.Contains(err.Error(), "already queued") {
			widget.ShowPopUp(widget.NewLabel("This URL is already in the queue"), ui.window.Canvas())
		} else {
			widget.ShowPopUp(widget.NewLabel("Error: "+err.Error()), ui.window.Canvas())
		}
		return
	}

	log.Printf("Record added: id=%s url=%s assets=%s", record.ID, record.SourceURL, assets)

	ui.urlEntry.SetText("")
	ui.refreshRecords()
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, func() {
		ui.controller.SetPreferredEngine(ui.settings.GetPreferredEngine())
		ui.controller.SetTranscriptLanguage(ui.settings.GetTranscriptLanguage())
		ui.engineSelect.SetSelected(ui.settings.GetPreferredEngine())
	})
}

// createRecordItem creates a new record row widget for the list
func (ui *RootUI) createRecordItem() fyne.CanvasObject {
	row := NewRecordRow(&model.AssetRecord{
		ID:     "placeholder",
		Status: model.StatusPending,
		Title:  "Loading...",
	})
	row.SetCallbacks(
		ui.onCancelRecord,
		ui.onResubmitRecord,
		ui.onRevealFolder,
		ui.onCopyPath,
		ui.onRemoveRecord,
	)
	return row
}

// updateRecordItem binds a list row to the record at the given position
func (ui *RootUI) updateRecordItem(id widget.ListItemID, item fyne.CanvasObject) {
	if id >= len(ui.records) {
		return
	}
	record := ui.records[id]
	if record == nil {
		return
	}

	if row, ok := item.(*RecordRow); ok {
		row.SetCallbacks(
			ui.onCancelRecord,
			ui.onResubmitRecord,
			ui.onRevealFolder,
			ui.onCopyPath,
			ui.onRemoveRecord,
		)
		row.UpdateRecord(record)
	}
}

// onCancelRecord handles the cancel button
func (ui *RootUI) onCancelRecord(recordID string) {
	if err := ui.controller.Cancel(recordID); err != nil {
		log.Printf("Cancel failed for %s: %v", recordID, err)
		widget.ShowPopUp(widget.NewLabel("Cannot cancel: "+err.Error()), ui.window.Canvas())
		return
	}
	ui.refreshRecords()
}

// onResubmitRecord re-queues a finished record
func (ui *RootUI) onResubmitRecord(recordID string) {
	if err := ui.controller.Resubmit(recordID); err != nil {
		log.Printf("Resubmit failed for %s: %v", recordID, err)
		widget.ShowPopUp(widget.NewLabel("Cannot retry: "+err.Error()), ui.window.Canvas())
		return
	}
	ui.refreshRecords()
}

// onRevealFolder handles revealing a record folder in the system file manager
func (ui *RootUI) onRevealFolder(folder string) {
	if folder == "" {
		widget.ShowPopUp(widget.NewLabel("No folder available yet"), ui.window.Canvas())
		return
	}
	if err := platform.RevealInFileManager(folder); err != nil {
		log.Printf("Reveal failed for %s: %v", folder, err)
		widget.ShowPopUp(widget.NewLabel("Could not open folder: "+err.Error()), ui.window.Canvas())
	}
}

// onCopyPath handles copying the record folder path to the clipboard
func (ui *RootUI) onCopyPath(folder string) {
	ui.app.Clipboard().SetContent(folder)
	widget.ShowPopUp(widget.NewLabel("Path copied to clipboard"), ui.window.Canvas())
}

// onRemoveRecord handles removing a record from the list
func (ui *RootUI) onRemoveRecord(recordID string) {
	if err := ui.controller.Remove(recordID); err != nil {
		log.Printf("Remove failed for %s: %v", recordID, err)
		widget.ShowPopUp(widget.NewLabel("Cannot remove: "+err.Error()), ui.window.Canvas())
		return
	}
	ui.refreshRecords()
}

// consumeEvents drains controller snapshots and refreshes the list. Runs on
// its own goroutine for the window's lifetime; all widget access goes
// through fyne.Do.
func (ui *RootUI) consumeEvents() {
	for {
		select {
		case snapshot := <-ui.controller.Events():
			ui.handleSnapshot(snapshot)
		case <-ui.controller.Done():
			log.Printf("Queue controller closed, stopping event consumer")
			return
		}
	}
}

// handleSnapshot applies one progress snapshot to the UI
func (ui *RootUI) handleSnapshot(snapshot queue.Snapshot) {
	record, known := ui.controller.Get(snapshot.CurrentID)

	fyne.Do(func() {
		ui.refreshRecords()
		ui.statusLabel.SetText(fmt.Sprintf("%d of %d done", snapshot.CompletedCount, snapshot.TotalCount))
	})

	if known && snapshot.CurrentStatus.IsTerminal() {
		ui.notifyFinished(record)
	}
}

// notifyFinished sends a system notification when a record reaches a
// terminal state, and auto-reveals the folder when configured
func (ui *RootUI) notifyFinished(record *model.AssetRecord) {
	var title string
	switch record.Status {
	case model.StatusSucceeded:
		title = "Download complete"
	case model.StatusPartiallySucceeded:
		title = "Download partially complete"
	default:
		title = "Download failed"
	}

	ui.app.SendNotification(&fyne.Notification{
		Title:   title,
		Content: record.GetDisplayTitle(),
	})

	if record.Status != model.StatusFailed && ui.settings.GetAutoRevealOnComplete() && record.OutputFolder != "" {
		ui.onRevealFolder(record.OutputFolder)
	}
}

// refreshRecords pulls the queue state and redraws the list. Must run on
// the UI thread.
func (ui *RootUI) refreshRecords() {
	ui.records = ui.controller.All()
	ui.recordList.Refresh()
}
