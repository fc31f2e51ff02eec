package queue

import "github.com/reelgrab/reel-downloader/internal/model"

// Snapshot is one progress notification pushed to the presentation layer
// after every state transition. Pushing (rather than polling) means the UI
// never observes a stale aggregate count. CurrentID is empty when the
// transition removed a record from the queue.
type Snapshot struct {
	CompletedCount int
	TotalCount     int
	CurrentID      string
	CurrentStatus  model.RecordStatus
}

// eventBufferSize bounds the snapshot channel; when the consumer lags, the
// oldest snapshot is dropped in favor of the newest one
const eventBufferSize = 64
