package model

import (
	"sort"
	"strings"
	"time"
)

// AssetType identifies one requested output for a URL
type AssetType string

const (
	AssetVideo      AssetType = "video"
	AssetThumbnail  AssetType = "thumbnail"
	AssetCaption    AssetType = "caption"
	AssetAudio      AssetType = "audio"
	AssetTranscript AssetType = "transcript"
)

// AllAssetTypes lists every supported asset type in display order
var AllAssetTypes = []AssetType{
	AssetVideo,
	AssetThumbnail,
	AssetCaption,
	AssetAudio,
	AssetTranscript,
}

// FileName returns the fixed on-disk name for the asset inside a record folder
func (at AssetType) FileName() string {
	switch at {
	case AssetVideo:
		return "video.mp4"
	case AssetThumbnail:
		return "thumbnail.jpg"
	case AssetCaption:
		return "caption.txt"
	case AssetAudio:
		return "audio.mp3"
	case AssetTranscript:
		return "transcript.txt"
	default:
		return string(at)
	}
}

// AssetSet is a set of requested asset types
type AssetSet map[AssetType]bool

// NewAssetSet builds a set from the given types
func NewAssetSet(types ...AssetType) AssetSet {
	set := make(AssetSet, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

// Has reports whether the set contains the asset type
func (as AssetSet) Has(t AssetType) bool {
	return as[t]
}

// Len returns the number of asset types in the set
func (as AssetSet) Len() int {
	return len(as)
}

// Clone returns an independent copy of the set
func (as AssetSet) Clone() AssetSet {
	clone := make(AssetSet, len(as))
	for t, ok := range as {
		if ok {
			clone[t] = true
		}
	}
	return clone
}

// Sorted returns the contained types in AllAssetTypes order
func (as AssetSet) Sorted() []AssetType {
	types := make([]AssetType, 0, len(as))
	for _, t := range AllAssetTypes {
		if as[t] {
			types = append(types, t)
		}
	}
	return types
}

// ParseAssetSet parses a comma separated list of asset type names,
// ignoring blanks and unknown names
func ParseAssetSet(s string) AssetSet {
	set := make(AssetSet)
	for _, part := range strings.Split(s, ",") {
		name := AssetType(strings.TrimSpace(part))
		for _, known := range AllAssetTypes {
			if name == known {
				set[known] = true
			}
		}
	}
	return set
}

// String renders the set as a comma separated list
func (as AssetSet) String() string {
	names := make([]string, 0, len(as))
	for _, t := range as.Sorted() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// EngineAttempt is one entry in a record's append-only audit trail
type EngineAttempt struct {
	EngineName string
	Outcome    AttemptOutcome
	ErrorText  string // empty unless the attempt failed
	At         time.Time
}

// AssetRecord represents one requested download in the queue
type AssetRecord struct {
	ID              string
	SourceURL       string
	RequestedAssets AssetSet
	Status          RecordStatus
	EnginesTried    []EngineAttempt // append-only, survives manual resubmits
	OutputFolder    string          // assigned once by the session manager
	Results         map[AssetType]string
	LastError       string // set only when Status is Failed
	Caption         string
	Title           string
	StartedAt       time.Time
	FinishedAt      time.Time
}

// NewEngineAttempt builds a timestamped audit trail entry
func NewEngineAttempt(engineName string, outcome AttemptOutcome, errText string) EngineAttempt {
	return EngineAttempt{
		EngineName: engineName,
		Outcome:    outcome,
		ErrorText:  errText,
		At:         time.Now(),
	}
}

// RecordAttempt appends one engine attempt to the audit trail
func (r *AssetRecord) RecordAttempt(engineName string, outcome AttemptOutcome, errText string) {
	r.EnginesTried = append(r.EnginesTried, NewEngineAttempt(engineName, outcome, errText))
}

// Clone returns a deep copy that stays valid while the original record keeps
// changing on another goroutine
func (r *AssetRecord) Clone() *AssetRecord {
	clone := *r
	clone.RequestedAssets = r.RequestedAssets.Clone()
	if r.EnginesTried != nil {
		clone.EnginesTried = append([]EngineAttempt(nil), r.EnginesTried...)
	}
	if r.Results != nil {
		clone.Results = make(map[AssetType]string, len(r.Results))
		for t, path := range r.Results {
			clone.Results[t] = path
		}
	}
	return &clone
}

// SetResult stores the produced file path for an asset type
func (r *AssetRecord) SetResult(t AssetType, path string) {
	if r.Results == nil {
		r.Results = make(map[AssetType]string)
	}
	r.Results[t] = path
}

// ProducedAssets returns the asset types present in Results, in stable order
func (r *AssetRecord) ProducedAssets() []AssetType {
	types := make([]AssetType, 0, len(r.Results))
	for t := range r.Results {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return assetOrder(types[i]) < assetOrder(types[j]) })
	return types
}

// CoversRequested reports whether Results covers every requested asset
func (r *AssetRecord) CoversRequested() bool {
	for t := range r.RequestedAssets {
		if _, ok := r.Results[t]; !ok {
			return false
		}
	}
	return true
}

// GetDisplayTitle returns title or URL in order of preference
func (r *AssetRecord) GetDisplayTitle() string {
	if r.Title != "" && !strings.HasPrefix(r.Title, "http") {
		return r.Title
	}
	return r.SourceURL
}

// AttemptSummary renders the audit trail as "engine: outcome" pairs for the UI
func (r *AssetRecord) AttemptSummary() string {
	if len(r.EnginesTried) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.EnginesTried))
	for _, a := range r.EnginesTried {
		parts = append(parts, a.EngineName+": "+string(a.Outcome))
	}
	return strings.Join(parts, " → ")
}

func assetOrder(t AssetType) int {
	for i, known := range AllAssetTypes {
		if known == t {
			return i
		}
	}
	return len(AllAssetTypes)
}
