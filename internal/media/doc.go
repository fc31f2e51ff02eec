package media

// Package media wraps the ffmpeg binary for local post-processing. The only
// operation the app needs is extracting an mp3 audio track from a fetched
// video so that the audio and transcript assets can be produced.
