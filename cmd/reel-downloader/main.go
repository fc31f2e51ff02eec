package main

import (
	"context"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/reelgrab/reel-downloader/internal/config"
	"github.com/reelgrab/reel-downloader/internal/engine"
	"github.com/reelgrab/reel-downloader/internal/fallback"
	"github.com/reelgrab/reel-downloader/internal/media"
	"github.com/reelgrab/reel-downloader/internal/platform"
	"github.com/reelgrab/reel-downloader/internal/queue"
	"github.com/reelgrab/reel-downloader/internal/session"
	"github.com/reelgrab/reel-downloader/internal/transcribe"
	"github.com/reelgrab/reel-downloader/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.reelgrab.reel-downloader"
	AppName = "Reel Downloader"

	WindowWidth  = 860
	WindowHeight = 620
)

func main() {
	fmt.Printf("%s v%s starting...\n", AppName, version)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// Initialize services
	settings := config.NewSettings(myApp)
	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		log.Printf("failed to ensure downloads dir: %v", err)
	}

	sessions := session.NewManager(downloadsDir)
	if _, err := sessions.StartSession(); err != nil {
		log.Fatalf("failed to create session folder: %v", err)
	}

	extractor := media.NewFFmpegExtractor()
	if !extractor.Available() {
		log.Printf("ffmpeg not found; audio and transcript assets will be unavailable")
	}

	ytdlpEngine := engine.NewYTDLPEngine(extractor)
	directEngine := engine.NewDirectEngine(extractor)
	coordinator := fallback.NewCoordinator(ytdlpEngine, directEngine)

	transcriber := transcribe.NewService(settings.GetTranscriptionModelPath())

	controller := queue.NewController(coordinator, sessions, transcriber, settings.GetMaxParallelDownloads())
	defer controller.Close()

	// Warm up the yt-dlp binary in the background so the first record does
	// not pay the install cost
	go func() {
		if err := ytdlpEngine.EnsureReady(context.Background()); err != nil {
			log.Printf("yt-dlp preparation failed: %v", err)
		}
	}()

	// Create and setup UI
	ui.NewRootUI(myWindow, myApp, controller, settings)

	// Show and run
	myWindow.ShowAndRun()
}
