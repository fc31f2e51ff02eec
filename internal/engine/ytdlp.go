package engine

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/reelgrab/reel-downloader/internal/media"
	"github.com/reelgrab/reel-downloader/internal/model"
)

// Release feed constants for the yt-dlp binary freshness check
const (
	ReleaseFeedURL      = "https://api.github.com/repos/yt-dlp/yt-dlp/releases/latest"
	ReleaseFeedTimeout  = 10 * time.Second
	MediaRequestTimeout = 60 * time.Second
)

// Default caption text when the source has none
const DefaultCaption = "No caption available"

// YTDLPEngine fetches media through the yt-dlp binary. The binary is
// installed or updated on first use each session; the update check fails
// open and the engine keeps whatever binary is already present.
type YTDLPEngine struct {
	extractor media.AudioExtractor
	client    *http.Client

	releaseFeedURL string
	skipInstall    bool // tests only

	ensureOnce sync.Once
	ensureErr  error
}

// NewYTDLPEngine creates the yt-dlp backed engine
func NewYTDLPEngine(extractor media.AudioExtractor) *YTDLPEngine {
	return &YTDLPEngine{
		extractor:      extractor,
		client:         &http.Client{Timeout: MediaRequestTimeout},
		releaseFeedURL: ReleaseFeedURL,
	}
}

// Name returns the engine name used in audit trails and settings
func (e *YTDLPEngine) Name() string {
	return NameYTDLP
}

// EnsureReady installs or updates the yt-dlp binary once per session.
// The version-freshness check against the release feed fails open.
func (e *YTDLPEngine) EnsureReady(ctx context.Context) error {
	e.ensureOnce.Do(func() {
		if latest := e.latestReleaseTag(ctx); latest != "" {
			log.Printf("Latest yt-dlp release: %s", latest)
		}

		if e.skipInstall {
			return
		}

		if _, err := ytdlp.Install(ctx, &ytdlp.InstallOptions{AllowVersionMismatch: true}); err != nil {
			if _, pathErr := exec.LookPath("yt-dlp"); pathErr != nil {
				e.ensureErr = unavailable("yt-dlp install failed: %v", err)
				return
			}
			// A binary is already on PATH, keep using it
			log.Printf("yt-dlp update failed, continuing with existing binary: %v", err)
		}
	})
	return e.ensureErr
}

// latestReleaseTag queries the upstream release feed. Any failure returns an
// empty string so the caller continues with the existing binary.
func (e *YTDLPEngine) latestReleaseTag(ctx context.Context) string {
	feedCtx, cancel := context.WithTimeout(ctx, ReleaseFeedTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(feedCtx, http.MethodGet, e.releaseFeedURL, nil)
	if err != nil {
		return ""
	}

	resp, err := e.client.Do(req)
	if err != nil {
		log.Printf("yt-dlp release check failed: %v", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("yt-dlp release check failed: status %s", resp.Status)
		return ""
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		log.Printf("yt-dlp release check failed: %v", err)
		return ""
	}
	return strings.TrimSpace(release.TagName)
}

// Fetch downloads the requested assets for url into destDir
func (e *YTDLPEngine) Fetch(ctx context.Context, url string, requested model.AssetSet, destDir string) (*Result, error) {
	if err := e.EnsureReady(ctx); err != nil {
		return nil, err
	}

	result := &Result{}
	needVideo := requested.Has(model.AssetVideo) || requested.Has(model.AssetAudio)
	videoPath := filepath.Join(destDir, model.AssetVideo.FileName())

	dl := ytdlp.New().
		NoPlaylist().
		ForceOverwrites().
		RestrictFilenames().
		Output(videoPath)
	if needVideo {
		dl = dl.Format("mp4/best")
	} else {
		dl = dl.SkipDownload()
	}

	res, err := dl.Run(ctx, url)
	if err != nil {
		cleanupPartials(destDir)
		if errors.Is(err, exec.ErrNotFound) {
			return nil, unavailable("yt-dlp binary missing: %v", err)
		}
		return nil, fetchFailed("yt-dlp: %v", err)
	}

	title, caption, thumbURL := extractMetadata(res, videoPath)
	result.Title = title

	if needVideo && !fileNonEmpty(videoPath) {
		cleanupPartials(destDir)
		return nil, fetchFailed("yt-dlp produced no video file for %s", url)
	}

	if requested.Has(model.AssetVideo) {
		result.addProduced(model.AssetVideo, videoPath)
	}

	if requested.Has(model.AssetCaption) {
		if caption == "" {
			caption = DefaultCaption
		}
		captionPath := filepath.Join(destDir, model.AssetCaption.FileName())
		if err := writeTextFile(captionPath, caption); err != nil {
			result.warnf("caption write failed: %v", err)
		} else {
			result.Caption = caption
			result.addProduced(model.AssetCaption, captionPath)
		}
	}

	if requested.Has(model.AssetThumbnail) {
		if thumbURL == "" {
			result.warnf("no thumbnail URL in metadata")
		} else {
			thumbPath := filepath.Join(destDir, model.AssetThumbnail.FileName())
			if err := downloadToFile(ctx, e.client, thumbURL, thumbPath); err != nil {
				result.warnf("thumbnail download failed: %v", err)
			} else {
				result.addProduced(model.AssetThumbnail, thumbPath)
			}
		}
	}

	if requested.Has(model.AssetAudio) {
		extractAudioAsset(ctx, e.extractor, videoPath, destDir, result)
	}

	// Video fetched only as an audio source is not kept
	if !requested.Has(model.AssetVideo) && fileNonEmpty(videoPath) {
		removeQuietly(videoPath)
	}

	if result.IsEmpty() {
		return nil, fetchFailed("yt-dlp produced none of the requested assets for %s", url)
	}
	return result, nil
}

// extractMetadata pulls title, description, and thumbnail URL out of the
// yt-dlp result, tolerating missing info
func extractMetadata(res *ytdlp.Result, videoPath string) (title, caption, thumbURL string) {
	if res == nil {
		return "", "", ""
	}
	info, err := res.GetExtractedInfo()
	if err != nil || len(info) == 0 {
		return "", "", ""
	}

	first := info[0]
	if first.Title != nil {
		title = *first.Title
	}
	if first.Description != nil {
		caption = *first.Description
	}
	if first.Thumbnail != nil {
		thumbURL = *first.Thumbnail
	}
	// yt-dlp may have remuxed into a different container name
	if first.Filename != nil && *first.Filename != videoPath && fileNonEmpty(*first.Filename) && !fileNonEmpty(videoPath) {
		if err := os.Rename(*first.Filename, videoPath); err != nil {
			log.Printf("Failed to move %s to %s: %v", *first.Filename, videoPath, err)
		}
	}
	return title, caption, thumbURL
}

// extractAudioAsset runs the ffmpeg extractor over the downloaded video,
// recording a warning instead of failing the whole fetch
func extractAudioAsset(ctx context.Context, extractor media.AudioExtractor, videoPath, destDir string, result *Result) {
	if extractor == nil {
		result.warnf("audio extraction unavailable: no extractor configured")
		return
	}
	if !fileNonEmpty(videoPath) {
		result.warnf("audio extraction skipped: no video file")
		return
	}

	audioPath := filepath.Join(destDir, model.AssetAudio.FileName())
	if err := extractor.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		result.warnf("audio extraction failed: %v", err)
		return
	}
	result.addProduced(model.AssetAudio, audioPath)
}

// cleanupPartials removes leftover download fragments from destDir
func cleanupPartials(destDir string) {
	entries, err := os.ReadDir(destDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".ytdl") || strings.HasSuffix(name, ".tmp") {
			removeQuietly(filepath.Join(destDir, name))
		}
	}
}

var _ Engine = (*YTDLPEngine)(nil)
