package engine

// Package engine defines the extraction engine contract and its two
// implementations: the yt-dlp binary engine (via github.com/lrstanley/go-ytdlp,
// with a self-update check against the upstream release feed) and the direct
// in-process engine that talks to the platform's public metadata endpoint.
