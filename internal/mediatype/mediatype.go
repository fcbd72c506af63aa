// Package mediatype classifies filesystem entries into playable media
// categories. Classification is extension-driven; the folder type is the only
// container type.
package mediatype

import (
	"path/filepath"
	"strings"
)

// Type is a media content category.
type Type string

const (
	Folder  Type = "folder"
	Audio   Type = "audio"
	Video   Type = "video"
	Unknown Type = "unknown"
)

var audioExts = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".m4a":  true,
	".wav":  true,
}

var videoExts = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".mov":  true,
	".webm": true,
	".avi":  true,
}

// ForPath classifies a leaf path by its extension.
// Directories are not detected here; callers that know a path is a directory
// should treat it as Folder directly.
func ForPath(path string) Type {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case audioExts[ext]:
		return Audio
	case videoExts[ext]:
		return Video
	default:
		return Unknown
	}
}

// IsContainer reports whether the type can hold other entries.
func (t Type) IsContainer() bool {
	return t == Folder
}

// Playable returns the default allowed-type set: audio and video leaves plus
// folders so top-level directories expand.
func Playable() []Type {
	return []Type{Folder, Audio, Video}
}

// Contains reports whether types includes t.
func Contains(types []Type, t Type) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// Conforms reports whether a leaf path matches one of the allowed types.
// Container types in the set are ignored: a leaf never conforms as a folder.
func Conforms(path string, types []Type) bool {
	t := ForPath(path)
	if t == Unknown || t.IsContainer() {
		return false
	}
	return Contains(types, t)
}

// WithoutContainers returns a copy of types with container types removed.
// Used by non-recursive ingestion to keep child directories from expanding.
func WithoutContainers(types []Type) []Type {
	result := make([]Type, 0, len(types))
	for _, t := range types {
		if !t.IsContainer() {
			result = append(result, t)
		}
	}
	return result
}

// ParseTypes converts config strings ("audio", "video", "folder") to types.
// Unrecognized names are dropped.
func ParseTypes(names []string) []Type {
	var result []Type
	for _, name := range names {
		switch Type(strings.ToLower(strings.TrimSpace(name))) {
		case Folder:
			result = append(result, Folder)
		case Audio:
			result = append(result, Audio)
		case Video:
			result = append(result, Video)
		}
	}
	return result
}
