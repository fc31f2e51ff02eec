package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractionArgs(t *testing.T) {
	args := extractionArgs("/tmp/video.mp4", "/tmp/audio.mp3")

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-i /tmp/video.mp4") {
		t.Errorf("Expected input flag in args, got %q", joined)
	}
	if !strings.Contains(joined, NoVideoFlag) {
		t.Errorf("Expected %s flag in args, got %q", NoVideoFlag, joined)
	}
	if !strings.Contains(joined, AudioCodec) {
		t.Errorf("Expected codec %s in args, got %q", AudioCodec, joined)
	}
	if args[len(args)-1] != "/tmp/audio.mp3" {
		t.Errorf("Expected output path last, got %q", args[len(args)-1])
	}
}

func TestExtractAudioMissingVideo(t *testing.T) {
	extractor := NewFFmpegExtractor()

	err := extractor.ExtractAudio(context.Background(), "/nonexistent/video.mp4", "/tmp/out.mp3")
	if err == nil {
		t.Fatal("Expected error for missing video file")
	}
}

func TestExtractAudioMissingBinary(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "video.mp4")
	if err := os.WriteFile(videoPath, []byte("not a real video"), 0644); err != nil {
		t.Fatalf("Failed to write test video: %v", err)
	}

	extractor := &FFmpegExtractor{binaryPath: filepath.Join(dir, "no-such-ffmpeg")}

	err := extractor.ExtractAudio(context.Background(), videoPath, filepath.Join(dir, "audio.mp3"))
	if err == nil {
		t.Fatal("Expected error when ffmpeg binary is missing")
	}
	if !strings.Contains(err.Error(), "ffmpeg not found") {
		t.Errorf("Expected ffmpeg not found error, got %v", err)
	}
}

func TestLastLine(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"empty", "", ""},
		{"single", "error: bad input", "error: bad input"},
		{"multi", "line one\nline two\nConversion failed!\n", "Conversion failed!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lastLine([]byte(tt.output)); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
