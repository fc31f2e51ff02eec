package queue

// Package queue implements the download queue controller. It sequences
// asset records through the fallback coordinator, enforces the bounded
// worker count, runs the optional transcription step, and pushes progress
// snapshots to the presentation layer over a channel so the core has no
// dependency on the UI toolkit.
