package media

import "context"

// AudioExtractor defines the interface for pulling an audio track out of a
// downloaded video file.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
}
