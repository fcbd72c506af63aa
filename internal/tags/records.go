package tags

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"

	"github.com/lvasseur/ondine/internal/metadata"
)

// Records reads a music file and returns its raw metadata record snapshot.
// Record tags use the key space native to the file's tag format (ID3 frame
// ids, MP4 atoms, or upper-case Vorbis names), so resolver keys probe across
// key spaces by preference. Text values are captured during the read; the
// artwork record stays lazy and re-reads the file on load.
func Records(path string) ([]metadata.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		ext := strings.ToLower(filepath.Ext(path))
		switch ext {
		case ExtMP3:
			// dhowden/tag has issues with some UTF-16 encoded ID3 tags
			return mp3Records(path)
		case ExtFLAC:
			// dhowden/tag can fail on some FLAC files
			return flacRecords(path)
		default:
			return taglibRecords(path)
		}
	}

	return recordsFromMetadata(path, m), nil
}

// nameSet maps semantic fields to the raw tag identifiers of one key space.
type nameSet struct {
	title, artist, album, albumArtist, genre, date, track, artwork string
}

var (
	id3Names = nameSet{
		title: "TIT2", artist: "TPE1", album: "TALB", albumArtist: "TPE2",
		genre: "TCON", date: "TDRC", track: "TRCK", artwork: "APIC",
	}
	mp4Names = nameSet{
		title: "\xa9nam", artist: "\xa9ART", album: "\xa9alb", albumArtist: "aART",
		genre: "\xa9gen", date: "\xa9day", track: "trkn", artwork: "covr",
	}
	vorbisNames = nameSet{
		title: "TITLE", artist: "ARTIST", album: "ALBUM", albumArtist: "ALBUMARTIST",
		genre: "GENRE", date: "DATE", track: "TRACKNUMBER", artwork: "METADATA_BLOCK_PICTURE",
	}
)

func namesForFormat(f tag.Format) nameSet {
	switch f {
	case tag.MP4:
		return mp4Names
	case tag.VORBIS:
		return vorbisNames
	default:
		// ID3v1 fields map onto the ID3v2 frame space
		return id3Names
	}
}

func recordsFromMetadata(path string, m tag.Metadata) []metadata.Record {
	names := namesForFormat(m.Format())

	var records []metadata.Record
	addText := func(tagName, value string) {
		if tagName == "" || value == "" {
			return
		}
		records = append(records, textRecord(tagName, value))
	}

	addText(names.title, m.Title())
	addText(names.artist, m.Artist())
	addText(names.album, m.Album())
	addText(names.albumArtist, m.AlbumArtist())
	addText(names.genre, m.Genre())
	if y := m.Year(); y > 0 {
		addText(names.date, strconv.Itoa(y))
	}
	if n, _ := m.Track(); n > 0 {
		records = append(records, intRecord(names.track, n))
	}
	if m.Picture() != nil {
		records = append(records, artworkRecord(names.artwork, func() ([]byte, error) {
			return readPicture(path)
		}))
	}

	return records
}

// readPicture re-reads the file and extracts the embedded picture. Artwork
// is the one record loaded on demand rather than captured up front.
func readPicture(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}
	pic := m.Picture()
	if pic == nil {
		return nil, nil
	}
	return pic.Data, nil
}

func textRecord(tagName, value string) metadata.Record {
	return metadata.Record{
		Tag: tagName,
		Load: func() (any, error) {
			return value, nil
		},
	}
}

func intRecord(tagName string, value int) metadata.Record {
	return metadata.Record{
		Tag: tagName,
		Load: func() (any, error) {
			return value, nil
		},
	}
}

func artworkRecord(tagName string, load func() ([]byte, error)) metadata.Record {
	return metadata.Record{
		Tag: tagName,
		Load: func() (any, error) {
			data, err := load()
			if err != nil {
				return nil, err
			}
			return data, nil
		},
	}
}
