// Package tags builds raw metadata record snapshots from music files.
// It is the raw-metadata-provider side of the resolver contract: one Record
// per raw tag present in the file, values loaded lazily. dhowden/tag is the
// primary reader; format-specific libraries fill in when it fails.
package tags

import (
	"strconv"
	"strings"
)

// File extensions with format-specific fallback readers. Everything else
// falls back to TagLib.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
)

// parseTrackNumber parses a track number string like "5" or "5/10".
func parseTrackNumber(s string) (num, total int) {
	if s == "" {
		return 0, 0
	}
	parts := strings.SplitN(s, "/", 2)
	num, _ = strconv.Atoi(parts[0])
	if len(parts) == 2 {
		total, _ = strconv.Atoi(parts[1])
	}
	return num, total
}
