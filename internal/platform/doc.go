package platform

// Package platform contains small OS integration helpers: directory
// creation, revealing finished downloads in the system file manager, and
// validation of supported short-video URLs.
