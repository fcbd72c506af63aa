package tags

import (
	"github.com/bogem/id3v2/v2"

	"github.com/lvasseur/ondine/internal/metadata"
)

// mp3Records reads records using only the id3v2 library. Used as a fallback
// when dhowden/tag fails (e.g., on some UTF-16 encoded tags).
func mp3Records(path string) ([]metadata.Record, error) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer id3tag.Close()

	var records []metadata.Record
	addFrame := func(frameID string) {
		if v := getID3TextFrame(id3tag, frameID); v != "" {
			records = append(records, textRecord(frameID, v))
		}
	}

	addFrame("TIT2")
	addFrame("TPE1")
	addFrame("TALB")
	addFrame("TPE2")
	addFrame("TCON")
	addFrame("TDRC")
	addFrame("TYER")

	if trck := getID3TextFrame(id3tag, "TRCK"); trck != "" {
		if n, _ := parseTrackNumber(trck); n > 0 {
			records = append(records, intRecord("TRCK", n))
		}
	}

	if len(id3tag.GetFrames("APIC")) > 0 {
		records = append(records, artworkRecord("APIC", func() ([]byte, error) {
			return readID3Picture(path)
		}))
	}

	return records, nil
}

// readID3Picture re-opens the file and extracts the attached picture frame.
func readID3Picture(path string) ([]byte, error) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer id3tag.Close()

	for _, frame := range id3tag.GetFrames("APIC") {
		if pic, ok := frame.(id3v2.PictureFrame); ok {
			return pic.Picture, nil
		}
	}
	return nil, nil
}

// getID3TextFrame reads a text frame value from an ID3v2 tag.
func getID3TextFrame(id3tag *id3v2.Tag, frameID string) string {
	frames := id3tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}
