package transcribe

import (
	"context"
	"errors"
	"sync"
)

// ErrTranscriptionUnavailable means the transcription model could not be
// loaded (missing binary or weights). Terminal for the transcript asset
// only, never for the whole record.
var ErrTranscriptionUnavailable = errors.New("transcription unavailable")

// TranscriptResult holds the transcription output
type TranscriptResult struct {
	Text             string
	DetectedLanguage string
}

// transcriber is the loaded model handle
type transcriber interface {
	transcribe(ctx context.Context, audioPath, language string) (*TranscriptResult, error)
}

// Service exposes transcription behind a lazily initialized shared model.
// The model is loaded on first use only; concurrent first callers share the
// in-flight load instead of triggering a second one, and callers cannot
// observe whether the model was already loaded.
type Service struct {
	loader func(ctx context.Context) (transcriber, error)

	once    sync.Once
	model   transcriber
	loadErr error
}

// NewService creates a transcription service. modelPath points at the model
// weights; whether transcription is actually available depends on the build
// variant and the local installation.
func NewService(modelPath string) *Service {
	return &Service{loader: platformLoader(modelPath)}
}

// Transcribe converts the audio file to text. language may be empty for
// auto-detection.
func (s *Service) Transcribe(ctx context.Context, audioPath, language string) (*TranscriptResult, error) {
	model, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	return model.transcribe(ctx, audioPath, language)
}

// acquire loads the model exactly once and returns the shared instance
func (s *Service) acquire(ctx context.Context) (transcriber, error) {
	s.once.Do(func() {
		s.model, s.loadErr = s.loader(ctx)
	})
	return s.model, s.loadErr
}
