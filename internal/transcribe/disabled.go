//go:build !transcription

package transcribe

import (
	"context"
	"fmt"
)

// platformLoader returns the loader for the default build, where the
// transcription variant is not compiled in. Requests for the transcript
// asset fail with ErrTranscriptionUnavailable and downgrade only that asset.
func platformLoader(modelPath string) func(ctx context.Context) (transcriber, error) {
	return func(ctx context.Context) (transcriber, error) {
		return nil, fmt.Errorf("%w: built without transcription support", ErrTranscriptionUnavailable)
	}
}
