package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/reelgrab/reel-downloader/internal/media"
	"github.com/reelgrab/reel-downloader/internal/model"
)

// Direct engine constants
const (
	// DirectMetadataURLTemplate is the public post-metadata endpoint,
	// parameterized by shortcode
	DirectMetadataURLTemplate = "https://www.instagram.com/p/%s/?__a=1&__d=dis"

	// DirectUserAgent is sent on every request; the endpoint rejects
	// clients without a browser-like agent
	DirectUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Path segments that carry a shortcode
var shortcodeSegments = []string{"reel", "reels", "p", "tv"}

// DirectEngine fetches media in-process over HTTPS using the platform's
// public metadata endpoint, with no external binary involved.
type DirectEngine struct {
	extractor media.AudioExtractor
	client    *http.Client

	// metadataURLTemplate is overridden in tests to point at a local server
	metadataURLTemplate string
}

// NewDirectEngine creates the native in-process engine
func NewDirectEngine(extractor media.AudioExtractor) *DirectEngine {
	return &DirectEngine{
		extractor:           extractor,
		client:              &http.Client{Timeout: MediaRequestTimeout},
		metadataURLTemplate: DirectMetadataURLTemplate,
	}
}

// Name returns the engine name used in audit trails and settings
func (e *DirectEngine) Name() string {
	return NameDirect
}

// postMetadata is the subset of the metadata document the engine reads
type postMetadata struct {
	GraphQL struct {
		ShortcodeMedia struct {
			IsVideo    bool   `json:"is_video"`
			VideoURL   string `json:"video_url"`
			DisplayURL string `json:"display_url"`
			Owner      struct {
				Username string `json:"username"`
			} `json:"owner"`
			EdgeMediaToCaption struct {
				Edges []struct {
					Node struct {
						Text string `json:"text"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"edge_media_to_caption"`
		} `json:"shortcode_media"`
	} `json:"graphql"`
}

func (m *postMetadata) caption() string {
	edges := m.GraphQL.ShortcodeMedia.EdgeMediaToCaption.Edges
	if len(edges) == 0 {
		return ""
	}
	return edges[0].Node.Text
}

// Fetch downloads the requested assets for sourceURL into destDir
func (e *DirectEngine) Fetch(ctx context.Context, sourceURL string, requested model.AssetSet, destDir string) (*Result, error) {
	shortcode, err := extractShortcode(sourceURL)
	if err != nil {
		return nil, fetchFailed("%v", err)
	}

	meta, err := e.fetchMetadata(ctx, shortcode)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	post := meta.GraphQL.ShortcodeMedia
	if post.Owner.Username != "" {
		result.Title = fmt.Sprintf("%s (%s)", post.Owner.Username, shortcode)
	} else {
		result.Title = shortcode
	}

	needVideo := requested.Has(model.AssetVideo) || requested.Has(model.AssetAudio)
	videoPath := filepath.Join(destDir, model.AssetVideo.FileName())

	if needVideo {
		if post.VideoURL == "" {
			return nil, fetchFailed("post %s has no video stream", shortcode)
		}
		if err := downloadToFile(ctx, e.client, post.VideoURL, videoPath); err != nil {
			return nil, fetchFailed("video download: %v", err)
		}
		if requested.Has(model.AssetVideo) {
			result.addProduced(model.AssetVideo, videoPath)
		}
	}

	if requested.Has(model.AssetThumbnail) {
		if post.DisplayURL == "" {
			result.warnf("no thumbnail URL in metadata")
		} else {
			thumbPath := filepath.Join(destDir, model.AssetThumbnail.FileName())
			if err := downloadToFile(ctx, e.client, post.DisplayURL, thumbPath); err != nil {
				result.warnf("thumbnail download failed: %v", err)
			} else {
				result.addProduced(model.AssetThumbnail, thumbPath)
			}
		}
	}

	if requested.Has(model.AssetCaption) {
		caption := meta.caption()
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

	if requested.Has(model.AssetAudio) {
		extractAudioAsset(ctx, e.extractor, videoPath, destDir, result)
	}

	if !requested.Has(model.AssetVideo) && fileNonEmpty(videoPath) {
		removeQuietly(videoPath)
	}

	if result.IsEmpty() {
		return nil, fetchFailed("produced none of the requested assets for %s", sourceURL)
	}
	return result, nil
}

// fetchMetadata retrieves and decodes the post metadata document
func (e *DirectEngine) fetchMetadata(ctx context.Context, shortcode string) (*postMetadata, error) {
	endpoint := fmt.Sprintf(e.metadataURLTemplate, shortcode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, unavailable("build metadata request: %v", err)
	}
	req.Header.Set("User-Agent", DirectUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fetchFailed("metadata request: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fetchFailed("rate limited by remote endpoint")
	case resp.StatusCode == http.StatusNotFound:
		return nil, fetchFailed("post %s not found (removed or private)", shortcode)
	default:
		return nil, fetchFailed("metadata request: unexpected status %s", resp.Status)
	}

	var meta postMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fetchFailed("metadata decode: %v", err)
	}
	if meta.GraphQL.ShortcodeMedia.VideoURL == "" && meta.GraphQL.ShortcodeMedia.DisplayURL == "" {
		return nil, fetchFailed("metadata for %s contains no media", shortcode)
	}
	return &meta, nil
}

// extractShortcode pulls the post shortcode out of a reel or post URL
func extractShortcode(sourceURL string) (string, error) {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", sourceURL, err)
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, segment := range segments {
		for _, marker := range shortcodeSegments {
			if segment == marker && i+1 < len(segments) && segments[i+1] != "" {
				return segments[i+1], nil
			}
		}
	}
	return "", fmt.Errorf("no shortcode in URL %q", sourceURL)
}

var _ Engine = (*DirectEngine)(nil)
