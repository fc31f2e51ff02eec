package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reelgrab/reel-downloader/internal/engine"
	"github.com/reelgrab/reel-downloader/internal/fallback"
	"github.com/reelgrab/reel-downloader/internal/model"
	"github.com/reelgrab/reel-downloader/internal/transcribe"
)

// CancelledDetail is the error detail recorded when the user cancels a
// running record
const CancelledDetail = "Cancelled"

// Resolver runs the dual-engine fetch for one URL and reports the engine
// attempts it made
type Resolver interface {
	Resolve(ctx context.Context, preferred, sourceURL string, requested model.AssetSet, destDir string) (*engine.Result, []model.EngineAttempt, error)
}

// FolderAllocator mints the output folder for a record
type FolderAllocator interface {
	AllocateRecordFolder(record *model.AssetRecord) (string, error)
}

// Transcriber converts an audio file to text
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (*transcribe.TranscriptResult, error)
}

// Controller holds the ordered queue of asset records and drives their
// processing. All state lives on the controller; it is created at
// application start and discarded when the session closes. Workers mutate
// the live records only under mu; Get, All and Add hand out copies, so
// consumers never read a record that a worker is still writing.
type Controller struct {
	resolver    Resolver
	folders     FolderAllocator
	transcriber Transcriber

	mu         sync.RWMutex
	records    map[string]*model.AssetRecord
	order      []string
	cancels    map[string]context.CancelFunc
	active     int
	maxWorkers int

	preferredEngine string
	language        string

	events chan Snapshot
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// NewController creates a queue controller. maxWorkers of 1 gives strict
// sequential processing; larger values enable bounded concurrency.
func NewController(resolver Resolver, folders FolderAllocator, transcriber Transcriber, maxWorkers int) *Controller {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		resolver:    resolver,
		folders:     folders,
		transcriber: transcriber,
		records:     make(map[string]*model.AssetRecord),
		cancels:     make(map[string]context.CancelFunc),
		maxWorkers:  maxWorkers,
		events:      make(chan Snapshot, eventBufferSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Events returns the snapshot channel consumed by the presentation layer
func (c *Controller) Events() <-chan Snapshot {
	return c.events
}

// Done is closed when the controller shuts down; consumers select on it
// alongside Events
func (c *Controller) Done() <-chan struct{} {
	return c.ctx.Done()
}

// SetPreferredEngine selects which engine the coordinator attempts first
func (c *Controller) SetPreferredEngine(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preferredEngine = name
}

// SetTranscriptLanguage sets the language hint passed to the transcriber;
// empty means auto-detect
func (c *Controller) SetTranscriptLanguage(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.language = lang
}

// Add enqueues a new record for the URL with the requested asset set
func (c *Controller) Add(sourceURL string, requested model.AssetSet) (*model.AssetRecord, error) {
	if sourceURL == "" {
		return nil, errors.New("source URL is empty")
	}
	if requested.Len() == 0 {
		return nil, errors.New("no assets selected")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.New("queue is closed")
	}

	for _, id := range c.order {
		existing := c.records[id]
		if existing.SourceURL == sourceURL && !existing.Status.IsTerminal() {
			return nil, fmt.Errorf("record already queued for URL: %s", sourceURL)
		}
	}

	record := &model.AssetRecord{
		ID:              "record-" + uuid.NewString(),
		SourceURL:       sourceURL,
		RequestedAssets: requested.Clone(),
		Status:          model.StatusPending,
	}
	c.records[record.ID] = record
	c.order = append(c.order, record.ID)

	c.startLocked()
	return record.Clone(), nil
}

// Resubmit re-queues a failed record. The engine audit trail is preserved
// and extended by the new attempts rather than reset.
func (c *Controller) Resubmit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	record, ok := c.records[id]
	if !ok {
		return fmt.Errorf("record not found: %s", id)
	}
	if !record.Status.IsTerminal() {
		return fmt.Errorf("record %s is not finished: %s", id, record.Status)
	}

	record.Status = model.StatusPending
	record.Results = nil
	record.LastError = ""
	record.FinishedAt = time.Time{}

	c.startLocked()
	return nil
}

// Cancel removes a pending record or signals cancellation of a running one.
// A running record's cancellation is cooperative: it is honored between
// engine attempts, not inside one.
func (c *Controller) Cancel(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	record, ok := c.records[id]
	if !ok {
		return fmt.Errorf("record not found: %s", id)
	}

	switch {
	case record.Status == model.StatusPending:
		c.removeLocked(id)
		// The record is gone; the snapshot carries only the new counts
		c.emitLocked("", "")
		return nil
	case record.Status == model.StatusRunning:
		if cancelRecord, ok := c.cancels[id]; ok {
			cancelRecord()
		}
		return nil
	default:
		return fmt.Errorf("record %s is already finished: %s", id, record.Status)
	}
}

// Remove deletes a finished or pending record from the queue
func (c *Controller) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	record, ok := c.records[id]
	if !ok {
		return fmt.Errorf("record not found: %s", id)
	}
	if record.Status.IsActive() {
		return fmt.Errorf("record %s is running; cancel it first", id)
	}

	c.removeLocked(id)
	return nil
}

// Get returns a copy of the record. The copy stays valid while the worker
// keeps mutating the live one.
func (c *Controller) Get(id string) (*model.AssetRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.records[id]
	if !ok {
		return nil, false
	}
	return record.Clone(), true
}

// All returns copies of the records in enqueue order
func (c *Controller) All() []*model.AssetRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records := make([]*model.AssetRecord, 0, len(c.order))
	for _, id := range c.order {
		records = append(records, c.records[id].Clone())
	}
	return records
}

// Close stops processing and releases the event channel. Running records
// are cancelled cooperatively.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
}

// startLocked launches workers for pending records up to the worker bound.
// Caller must hold c.mu.
func (c *Controller) startLocked() {
	for _, id := range c.order {
		if c.active >= c.maxWorkers {
			return
		}
		record := c.records[id]
		if record.Status != model.StatusPending {
			continue
		}

		record.Status = model.StatusRunning
		record.StartedAt = time.Now()
		c.active++

		recordCtx, cancelRecord := context.WithCancel(c.ctx)
		c.cancels[record.ID] = cancelRecord

		go c.process(recordCtx, record)
	}
}

// process runs one record start to finish, then tries to start the next
// pending record
func (c *Controller) process(ctx context.Context, record *model.AssetRecord) {
	c.emit(record.ID, model.StatusRunning)

	status, errSummary := c.runRecord(ctx, record)

	c.mu.Lock()
	record.Status = status
	record.LastError = errSummary
	record.FinishedAt = time.Now()
	delete(c.cancels, record.ID)
	c.active--
	c.emitLocked(record.ID, status)
	c.startLocked()
	c.mu.Unlock()
}

// runRecord does the actual work: folder allocation, dual-engine resolve,
// optional transcription, and final status computation. Every record
// mutation happens under c.mu so snapshot copies are always consistent.
func (c *Controller) runRecord(ctx context.Context, record *model.AssetRecord) (model.RecordStatus, string) {
	c.mu.RLock()
	preferred := c.preferredEngine
	language := c.language
	requested := record.RequestedAssets.Clone()
	outputFolder := record.OutputFolder
	c.mu.RUnlock()

	if outputFolder == "" {
		folder, err := c.folders.AllocateRecordFolder(record)
		if err != nil {
			log.Printf("Folder allocation failed for %s: %v", record.SourceURL, err)
			return model.StatusFailed, "Could not create the output folder"
		}
		outputFolder = folder
		c.mu.Lock()
		record.OutputFolder = folder
		c.mu.Unlock()
	}

	wantTranscript := requested.Has(model.AssetTranscript)

	// Engines know nothing about transcripts; they need audio to feed the
	// transcriber even when the user did not ask for the audio file itself
	engineAssets := requested.Clone()
	delete(engineAssets, model.AssetTranscript)
	audioInternalOnly := false
	if wantTranscript && !engineAssets.Has(model.AssetAudio) {
		engineAssets[model.AssetAudio] = true
		audioInternalOnly = true
	}

	result, attempts, err := c.resolver.Resolve(ctx, preferred, record.SourceURL, engineAssets, outputFolder)
	c.mu.Lock()
	record.EnginesTried = append(record.EnginesTried, attempts...)
	c.mu.Unlock()
	if err != nil {
		if ctx.Err() != nil {
			return model.StatusFailed, CancelledDetail
		}
		return model.StatusFailed, fallback.Summarize(err)
	}

	for _, warning := range result.Warnings {
		log.Printf("Engine warning for %s: %s", record.SourceURL, warning)
	}

	audioPath := result.Produced[model.AssetAudio]
	c.mu.Lock()
	if result.Title != "" {
		record.Title = result.Title
	}
	record.Caption = result.Caption
	for asset, path := range result.Produced {
		if asset == model.AssetAudio && audioInternalOnly {
			continue
		}
		record.SetResult(asset, path)
	}
	c.mu.Unlock()

	if wantTranscript {
		c.transcribeRecord(ctx, record, audioPath, language)
	}
	if audioInternalOnly && audioPath != "" {
		if err := os.Remove(audioPath); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove temporary audio %s: %v", audioPath, err)
		}
	}

	c.mu.RLock()
	covered := record.CoversRequested()
	produced := len(record.Results)
	c.mu.RUnlock()

	switch {
	case covered:
		return model.StatusSucceeded, ""
	case produced > 0:
		return model.StatusPartiallySucceeded, ""
	default:
		return model.StatusFailed, "No requested assets could be produced"
	}
}

// transcribeRecord runs the transcriber over the fetched audio and writes
// transcript.txt. A transcription failure downgrades only the transcript
// asset, never the whole record.
func (c *Controller) transcribeRecord(ctx context.Context, record *model.AssetRecord, audioPath, language string) {
	if audioPath == "" {
		log.Printf("Transcription skipped for %s: no audio source", record.SourceURL)
		return
	}
	if c.transcriber == nil {
		log.Printf("Transcription skipped for %s: no transcriber configured", record.SourceURL)
		return
	}

	result, err := c.transcriber.Transcribe(ctx, audioPath, language)
	if err != nil {
		log.Printf("Transcription failed for %s: %v", record.SourceURL, err)
		return
	}

	transcriptPath := filepath.Join(record.OutputFolder, model.AssetTranscript.FileName())
	if err := os.WriteFile(transcriptPath, []byte(result.Text), 0644); err != nil {
		log.Printf("Transcript write failed for %s: %v", record.SourceURL, err)
		return
	}
	c.mu.Lock()
	record.SetResult(model.AssetTranscript, transcriptPath)
	c.mu.Unlock()
}

// removeLocked drops a record from the map and order. Caller must hold c.mu.
func (c *Controller) removeLocked(id string) {
	delete(c.records, id)
	delete(c.cancels, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// emit pushes a snapshot, dropping the oldest buffered one when the
// consumer lags
func (c *Controller) emit(currentID string, currentStatus model.RecordStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emitLocked(currentID, currentStatus)
}

// emitLocked builds and pushes a snapshot. Caller must hold c.mu.
func (c *Controller) emitLocked(currentID string, currentStatus model.RecordStatus) {
	if c.closed {
		return
	}

	completed := 0
	for _, id := range c.order {
		if c.records[id].Status.IsTerminal() {
			completed++
		}
	}

	snapshot := Snapshot{
		CompletedCount: completed,
		TotalCount:     len(c.order),
		CurrentID:      currentID,
		CurrentStatus:  currentStatus,
	}

	for {
		select {
		case c.events <- snapshot:
			return
		default:
			select {
			case <-c.events:
			default:
			}
		}
	}
}
