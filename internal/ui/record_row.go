package ui

import (
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/reelgrab/reel-downloader/internal/model"
)

// RecordRow represents a compact queue record row widget
type RecordRow struct {
	widget.BaseWidget

	record *model.AssetRecord

	// UI components
	titleLabel  *widget.Label
	statusLabel *widget.Label
	detailLabel *widget.Label

	// Action buttons
	actionBtn *widget.Button // cancel while active, retry when failed
	openBtn   *widget.Button // reveal output folder in file manager
	copyBtn   *widget.Button // copy output folder path
	removeBtn *widget.Button

	// Callbacks
	onCancel   func(recordID string)
	onResubmit func(recordID string)
	onReveal   func(folder string)
	onCopyPath func(folder string)
	onRemove   func(recordID string)
}

// NewRecordRow creates a new record row widget
func NewRecordRow(record *model.AssetRecord) *RecordRow {
	if record == nil {
		log.Printf("Warning: NewRecordRow called with nil record")
		record = &model.AssetRecord{
			ID:     "placeholder",
			Status: model.StatusPending,
			Title:  "Loading...",
		}
	}

	rr := &RecordRow{record: record}
	rr.ExtendBaseWidget(rr)
	rr.createUI()
	rr.updateFromRecord()
	return rr
}

// SetCallbacks sets the action callbacks
func (rr *RecordRow) SetCallbacks(
	onCancel func(recordID string),
	onResubmit func(recordID string),
	onReveal func(folder string),
	onCopyPath func(folder string),
	onRemove func(recordID string),
) {
	rr.onCancel = onCancel
	rr.onResubmit = onResubmit
	rr.onReveal = onReveal
	rr.onCopyPath = onCopyPath
	rr.onRemove = onRemove
}

// UpdateRecord updates the row with new record data
func (rr *RecordRow) UpdateRecord(record *model.AssetRecord) {
	if record == nil {
		log.Printf("Warning: UpdateRecord called with nil record for %s", rr.record.ID)
		return
	}
	rr.record = record
	rr.updateFromRecord()
	rr.Refresh()
}

// createUI creates the UI components
func (rr *RecordRow) createUI() {
	rr.titleLabel = widget.NewLabel("")
	rr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	rr.titleLabel.Truncation = fyne.TextTruncateEllipsis
	rr.titleLabel.Alignment = fyne.TextAlignLeading

	rr.statusLabel = widget.NewLabel("")
	rr.statusLabel.Alignment = fyne.TextAlignTrailing

	rr.detailLabel = widget.NewLabel("")
	rr.detailLabel.Alignment = fyne.TextAlignLeading
	rr.detailLabel.Truncation = fyne.TextTruncateEllipsis

	rr.actionBtn = widget.NewButton("cancel", func() {
		current := rr.record
		switch {
		case current.Status.IsActive() || current.Status == model.StatusPending:
			if rr.onCancel != nil {
				rr.onCancel(current.ID)
			}
		case current.Status.IsTerminal():
			if rr.onResubmit != nil {
				rr.onResubmit(current.ID)
			}
		}
	})
	rr.actionBtn.Importance = widget.MediumImportance

	rr.openBtn = widget.NewButton("open", func() {
		current := rr.record
		if current.OutputFolder == "" {
			widget.ShowPopUp(widget.NewLabel("Output folder not created yet"), fyne.CurrentApp().Driver().CanvasForObject(rr.openBtn))
			return
		}
		if rr.onReveal != nil {
			rr.onReveal(current.OutputFolder)
		}
	})
	rr.openBtn.Importance = widget.MediumImportance

	rr.copyBtn = widget.NewButton("path", func() {
		current := rr.record
		if current.OutputFolder == "" {
			widget.ShowPopUp(widget.NewLabel("Output folder not created yet"), fyne.CurrentApp().Driver().CanvasForObject(rr.copyBtn))
			return
		}
		if rr.onCopyPath != nil {
			rr.onCopyPath(current.OutputFolder)
		}
	})
	rr.copyBtn.Importance = widget.MediumImportance

	rr.removeBtn = widget.NewButton(IconClose, func() {
		current := rr.record
		if rr.onRemove != nil {
			rr.onRemove(current.ID)
		}
	})
	rr.removeBtn.Importance = widget.LowImportance
}

// updateFromRecord updates UI components based on record state
func (rr *RecordRow) updateFromRecord() {
	if rr.record == nil {
		return
	}

	title := strings.TrimSpace(strings.ReplaceAll(rr.record.GetDisplayTitle(), "\n", " "))
	rr.titleLabel.SetText(title)

	switch rr.record.Status {
	case model.StatusFailed:
		rr.statusLabel.Importance = widget.DangerImportance
		rr.statusLabel.SetText(IconError + " Failed")
	case model.StatusSucceeded:
		rr.statusLabel.Importance = widget.SuccessImportance
		rr.statusLabel.SetText("Done")
	case model.StatusPartiallySucceeded:
		rr.statusLabel.Importance = widget.WarningImportance
		rr.statusLabel.SetText("Partial")
	case model.StatusRunning:
		rr.statusLabel.Importance = widget.HighImportance
		rr.statusLabel.SetText("Fetching")
	default:
		rr.statusLabel.Importance = widget.MediumImportance
		rr.statusLabel.SetText(rr.record.Status.String())
	}

	rr.detailLabel.SetText(rr.detailText())
	rr.updateButtons()
}

// detailText builds the secondary line: produced assets, the engine audit
// trail, and the failure message when there is one
func (rr *RecordRow) detailText() string {
	var parts []string

	if produced := rr.record.ProducedAssets(); len(produced) > 0 {
		names := make([]string, 0, len(produced))
		for _, t := range produced {
			names = append(names, string(t))
		}
		parts = append(parts, strings.Join(names, ", "))
	}

	if trail := rr.record.AttemptSummary(); trail != "" {
		parts = append(parts, trail)
	}

	if rr.record.Status == model.StatusFailed && rr.record.LastError != "" {
		parts = append(parts, rr.record.LastError)
	}

	if len(parts) == 0 {
		return DashPlaceholder
	}
	return strings.Join(parts, MiddleDotSeparator)
}

// updateButtons updates button states based on record status
func (rr *RecordRow) updateButtons() {
	switch {
	case rr.record.Status == model.StatusPending || rr.record.Status.IsActive():
		rr.actionBtn.SetText("cancel")
		rr.actionBtn.Enable()
		rr.removeBtn.Disable()
	case rr.record.Status == model.StatusFailed:
		rr.actionBtn.SetText(IconRetry + " retry")
		rr.actionBtn.Enable()
		rr.removeBtn.Enable()
	default:
		// Succeeded or partial: retry re-fetches the missing assets
		rr.actionBtn.SetText(IconRetry + " retry")
		rr.actionBtn.Enable()
		rr.removeBtn.Enable()
	}

	if rr.record.OutputFolder == "" {
		rr.openBtn.Disable()
		rr.copyBtn.Disable()
	} else {
		rr.openBtn.Enable()
		rr.copyBtn.Enable()
	}
}

// CreateRenderer creates the widget renderer
func (rr *RecordRow) CreateRenderer() fyne.WidgetRenderer {
	header := container.NewBorder(nil, nil, nil, rr.statusLabel, rr.titleLabel)
	buttons := container.NewHBox(rr.actionBtn, rr.openBtn, rr.copyBtn, rr.removeBtn)
	bottom := container.NewBorder(nil, nil, nil, buttons, rr.detailLabel)

	content := container.NewVBox(header, bottom)
	return widget.NewSimpleRenderer(content)
}

// MinSize returns the minimum row size so list rows stay readable
func (rr *RecordRow) MinSize() fyne.Size {
	min := rr.BaseWidget.MinSize()
	if min.Width < RowMinWidth {
		min.Width = RowMinWidth
	}
	if min.Height < RowMinHeight {
		min.Height = RowMinHeight
	}
	return min
}
