//go:build transcription

package transcribe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Whisper CLI constants
const (
	WhisperCommand = "whisper-cli"

	// Stderr line prefix the CLI prints when auto-detecting the language
	detectedLanguagePrefix = "auto-detected language:"
)

// whisperModel runs the whisper.cpp command line binary over audio files
type whisperModel struct {
	binaryPath string
	modelPath  string
}

// platformLoader returns the loader for the transcription-enabled build:
// the whisper.cpp CLI plus a local model file.
func platformLoader(modelPath string) func(ctx context.Context) (transcriber, error) {
	return func(ctx context.Context) (transcriber, error) {
		binary, err := exec.LookPath(WhisperCommand)
		if err != nil {
			return nil, fmt.Errorf("%w: %s not found on PATH", ErrTranscriptionUnavailable, WhisperCommand)
		}

		info, err := os.Stat(modelPath)
		if err != nil {
			return nil, fmt.Errorf("%w: model weights missing at %s", ErrTranscriptionUnavailable, modelPath)
		}
		if info.Size() == 0 {
			return nil, fmt.Errorf("%w: model weights at %s are empty", ErrTranscriptionUnavailable, modelPath)
		}

		return &whisperModel{binaryPath: binary, modelPath: modelPath}, nil
	}
}

func (m *whisperModel) transcribe(ctx context.Context, audioPath, language string) (*TranscriptResult, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("audio file not readable: %w", err)
	}

	outBase := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	lang := language
	if lang == "" {
		lang = "auto"
	}

	args := []string{
		"-m", m.modelPath,
		"-f", audioPath,
		"-l", lang,
		"--output-txt",
		"--output-file", outBase,
		"--no-prints",
	}

	cmd := exec.CommandContext(ctx, m.binaryPath, args...)
	stderr, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("whisper run failed: %w: %s", err, strings.TrimSpace(string(stderr)))
	}

	txtPath := outBase + ".txt"
	text, err := os.ReadFile(txtPath)
	if err != nil {
		return nil, fmt.Errorf("whisper produced no transcript at %s: %w", txtPath, err)
	}
	defer os.Remove(txtPath)

	detected := language
	if detected == "" {
		detected = parseDetectedLanguage(string(stderr))
	}

	return &TranscriptResult{
		Text:             strings.TrimSpace(string(text)),
		DetectedLanguage: detected,
	}, nil
}

// parseDetectedLanguage scans CLI output for the auto-detection line
func parseDetectedLanguage(output string) string {
	for _, line := range strings.Split(output, "\n") {
		lower := strings.ToLower(line)
		idx := strings.Index(lower, detectedLanguagePrefix)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(line[idx+len(detectedLanguagePrefix):])
		if fields := strings.Fields(rest); len(fields) > 0 {
			return strings.Trim(fields[0], "(),.")
		}
	}
	return ""
}
