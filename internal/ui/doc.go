package ui

// Package ui contains the Fyne-based desktop user interface for the application.
// It wires user interactions to the queue controller and renders asset records,
// aggregate progress, and settings.
