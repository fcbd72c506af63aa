package metadata

// Key identifies a semantic metadata field and the raw tag identifiers that
// can satisfy it, most preferred first. ID is the sole cache identity; the
// type parameter only declares the expected value type. Two keys with the
// same ID must never differ in type parameter.
type Key[T any] struct {
	// ID is the stable identity used for cache indexing.
	ID string
	// Raw lists the raw record tags to probe, in preference order.
	Raw []string
}

// Predeclared keys. Preference order within each key follows the three raw
// key spaces a record snapshot can mix: format-neutral Vorbis-style names
// first, then MP4/iTunes atoms, then ID3v2 frames.
var (
	Title       = Key[string]{ID: "title", Raw: []string{"TITLE", "\xa9nam", "TIT2"}}
	Artist      = Key[string]{ID: "artist", Raw: []string{"ARTIST", "\xa9ART", "TPE1"}}
	Album       = Key[string]{ID: "album", Raw: []string{"ALBUM", "\xa9alb", "TALB"}}
	AlbumArtist = Key[string]{ID: "album_artist", Raw: []string{"ALBUMARTIST", "aART", "TPE2"}}
	Genre       = Key[string]{ID: "genre", Raw: []string{"GENRE", "\xa9gen", "TCON"}}
	Date        = Key[string]{ID: "date", Raw: []string{"DATE", "\xa9day", "TDRC", "TYER"}}
	TrackNumber = Key[int]{ID: "track_number", Raw: []string{"TRACKNUMBER", "trkn", "TRCK"}}
	Artwork     = Key[[]byte]{ID: "artwork", Raw: []string{"METADATA_BLOCK_PICTURE", "covr", "APIC"}}
)
