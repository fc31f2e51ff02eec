package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
)

// downloadToFile streams the body of url into path. The partially written
// file is removed on any failure.
func downloadToFile(ctx context.Context, client *http.Client, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s: unexpected status %s", url, resp.Status)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		removeQuietly(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		removeQuietly(path)
		return fmt.Errorf("close %s: %w", path, err)
	}

	if !fileNonEmpty(path) {
		removeQuietly(path)
		return fmt.Errorf("downloaded file %s is empty", path)
	}

	return nil
}

// writeTextFile writes text content, removing the file on failure
func writeTextFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		removeQuietly(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// fileNonEmpty reports whether path exists with a size greater than zero
func fileNonEmpty(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove %s: %v", path, err)
	}
}
