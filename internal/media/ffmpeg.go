package media

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
)

// FFmpeg constants for audio extraction settings
const (
	FFmpegCommand = "ffmpeg"

	// Audio codec settings
	AudioCodec   = "libmp3lame"
	AudioBitrate = "192k"

	// Flags
	NoVideoFlag   = "-vn"
	OverwriteFlag = "-y"
)

// FFmpegExtractor extracts audio tracks by shelling out to ffmpeg
type FFmpegExtractor struct {
	// binaryPath overrides PATH lookup, used in tests
	binaryPath string
}

// NewFFmpegExtractor creates a new extractor using ffmpeg from PATH
func NewFFmpegExtractor() *FFmpegExtractor {
	return &FFmpegExtractor{}
}

// Available reports whether the ffmpeg binary can be found
func (e *FFmpegExtractor) Available() bool {
	_, err := exec.LookPath(e.command())
	return err == nil
}

// ExtractAudio extracts the audio track of videoPath into audioPath as mp3.
// The partially written output file is removed on failure.
func (e *FFmpegExtractor) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	if _, err := os.Stat(videoPath); err != nil {
		return fmt.Errorf("video file not readable: %w", err)
	}

	if _, err := exec.LookPath(e.command()); err != nil {
		return fmt.Errorf("ffmpeg not found: %w", err)
	}

	args := extractionArgs(videoPath, audioPath)
	cmd := exec.CommandContext(ctx, e.command(), args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		if removeErr := os.Remove(audioPath); removeErr != nil && !os.IsNotExist(removeErr) {
			log.Printf("Failed to remove partial audio file %s: %v", audioPath, removeErr)
		}
		return fmt.Errorf("ffmpeg failed: %w: %s", err, lastLine(output))
	}

	info, err := os.Stat(audioPath)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("ffmpeg produced no audio output at %s", audioPath)
	}

	return nil
}

func (e *FFmpegExtractor) command() string {
	if e.binaryPath != "" {
		return e.binaryPath
	}
	return FFmpegCommand
}

// extractionArgs builds the ffmpeg argument list for an mp3 extraction
func extractionArgs(videoPath, audioPath string) []string {
	return []string{
		"-i", videoPath,
		NoVideoFlag,
		"-acodec", AudioCodec,
		"-b:a", AudioBitrate,
		OverwriteFlag,
		audioPath,
	}
}

// lastLine returns the last non-empty line of command output, which is where
// ffmpeg puts its actual error message
func lastLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
