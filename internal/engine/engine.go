package engine

import (
	"context"
	"fmt"

	"github.com/reelgrab/reel-downloader/internal/model"
)

// Engine names used in audit trails and settings
const (
	NameYTDLP  = "yt-dlp"
	NameDirect = "direct"
)

// Result is the normalized outcome of one engine fetch. Every path in
// Produced refers to a file that exists and is non-empty at return time.
type Result struct {
	Produced map[model.AssetType]string
	Caption  string
	Title    string
	Warnings []string
}

// Covers reports whether the result produced every asset in the request
func (r *Result) Covers(requested model.AssetSet) bool {
	for t := range requested {
		if _, ok := r.Produced[t]; !ok {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the result produced nothing
func (r *Result) IsEmpty() bool {
	return len(r.Produced) == 0
}

func (r *Result) addProduced(t model.AssetType, path string) {
	if r.Produced == nil {
		r.Produced = make(map[model.AssetType]string)
	}
	r.Produced[t] = path
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Engine turns a short-video URL into local media files plus metadata.
// Implementations write only under destDir and clean up their temporary
// files on failure. A partial result (some but not all requested assets)
// is returned with a nil error.
type Engine interface {
	Name() string
	Fetch(ctx context.Context, url string, requested model.AssetSet, destDir string) (*Result, error)
}
