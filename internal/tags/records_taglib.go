package tags

import (
	"strings"

	"go.senan.xyz/taglib"

	"github.com/lvasseur/ondine/internal/metadata"
)

// taglibRecords reads records with TagLib. Generic fallback for formats the
// other readers do not cover. Tag names come back in TagLib's property space
// and are normalized to upper case, matching the Vorbis-style identifiers in
// key preference lists.
func taglibRecords(path string) ([]metadata.Record, error) {
	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}

	var records []metadata.Record
	for name, values := range rawTags {
		if len(values) == 0 || values[0] == "" {
			continue
		}
		key := strings.ToUpper(name)
		value := values[0]
		if key == "TRACKNUMBER" {
			if n, _ := parseTrackNumber(value); n > 0 {
				records = append(records, intRecord(key, n))
			}
			continue
		}
		records = append(records, textRecord(key, value))
	}
	return records, nil
}
