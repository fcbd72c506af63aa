package tags

import (
	"os"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"

	"github.com/lvasseur/ondine/internal/metadata"
)

// flacRecords reads Vorbis-comment records directly from a FLAC file. Used
// as a fallback when dhowden/tag fails. Only the metadata blocks are parsed;
// the frame stream is never read, so a file truncated after its metadata
// still yields records and a malformed header returns an error.
func flacRecords(path string) ([]metadata.Record, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := goflac.ParseMetadata(fh)
	if err != nil {
		return nil, err
	}

	var records []metadata.Record
	for _, meta := range f.Meta {
		if meta.Type != goflac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			continue
		}
		for _, comment := range cmts.Comments {
			idx := strings.Index(comment, "=")
			if idx <= 0 {
				continue
			}
			key := strings.ToUpper(comment[:idx])
			value := comment[idx+1:]
			if value == "" {
				continue
			}
			switch key {
			case "TRACKNUMBER":
				if n, _ := parseTrackNumber(value); n > 0 {
					records = append(records, intRecord(key, n))
				}
			case "METADATA_BLOCK_PICTURE":
				// Base64-embedded picture comments are rare; the picture
				// block below covers embedded art
			default:
				records = append(records, textRecord(key, value))
			}
		}
		break
	}

	for _, meta := range f.Meta {
		if meta.Type != goflac.Picture {
			continue
		}
		// The block wraps the image in picture-type/MIME/dimension headers;
		// only the decoded image bytes go into the record.
		pic, err := flacpicture.ParseFromMetaDataBlock(*meta)
		if err != nil {
			continue
		}
		data := pic.ImageData
		records = append(records, artworkRecord("METADATA_BLOCK_PICTURE", func() ([]byte, error) {
			return data, nil
		}))
		break
	}

	return records, nil
}
