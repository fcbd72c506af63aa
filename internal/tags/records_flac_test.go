package tags

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
)

// createTestFLAC writes a FLAC file containing only metadata blocks: a blank
// STREAMINFO, a Vorbis comment block with the given fields, and optionally a
// PICTURE block embedding image.
func createTestFLAC(t *testing.T, path string, comments map[string]string, image []byte) {
	t.Helper()

	meta := []*goflac.MetaDataBlock{
		{Type: goflac.StreamInfo, Data: make([]byte, 34)},
	}

	cmts := flacvorbis.New()
	for key, value := range comments {
		if err := cmts.Add(key, value); err != nil {
			t.Fatalf("failed to add vorbis comment: %v", err)
		}
	}
	cmtBlock := cmts.Marshal()
	meta = append(meta, &cmtBlock)

	if image != nil {
		meta = append(meta, pictureBlock(image))
	}

	f := &goflac.File{Meta: meta}
	if err := f.Save(path); err != nil {
		t.Fatalf("failed to create test FLAC: %v", err)
	}
}

// pictureBlock builds a METADATA_BLOCK_PICTURE wrapping image: picture type,
// MIME, description, dimensions, then the image data itself.
func pictureBlock(image []byte) *goflac.MetaDataBlock {
	var buf bytes.Buffer
	writeU32 := func(v uint32) {
		_ = binary.Write(&buf, binary.BigEndian, v)
	}

	writeU32(3) // front cover
	mime := "image/jpeg"
	writeU32(uint32(len(mime)))
	buf.WriteString(mime)
	writeU32(0) // description length
	writeU32(0) // width
	writeU32(0) // height
	writeU32(0) // color depth
	writeU32(0) // indexed colors
	writeU32(uint32(len(image)))
	buf.Write(image)

	return &goflac.MetaDataBlock{Type: goflac.Picture, Data: buf.Bytes()}
}

func TestFLACRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.flac")
	createTestFLAC(t, path, map[string]string{
		"TITLE":       "Flac Title",
		"ARTIST":      "Flac Artist",
		"TRACKNUMBER": "4/11",
	}, nil)

	records, err := flacRecords(path)
	if err != nil {
		t.Fatalf("flacRecords() error = %v", err)
	}

	if got := loadString(t, records, "TITLE"); got != "Flac Title" {
		t.Errorf("TITLE = %q, want %q", got, "Flac Title")
	}
	if got := loadString(t, records, "ARTIST"); got != "Flac Artist" {
		t.Errorf("ARTIST = %q, want %q", got, "Flac Artist")
	}

	trck := findRecord(records, "TRACKNUMBER")
	if trck == nil {
		t.Fatal("no TRACKNUMBER record")
	}
	v, err := trck.Load()
	if err != nil {
		t.Fatalf("TRACKNUMBER Load() error = %v", err)
	}
	if n, ok := v.(int); !ok || n != 4 {
		t.Errorf("TRACKNUMBER = %v (%T), want 4 (int)", v, v)
	}
}

func TestFLACRecords_ArtworkIsImageBytesOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "art.flac")
	image := []byte{0xff, 0xd8, 0xff, 0xe0, 0x01, 0x02, 0x03}
	createTestFLAC(t, path, map[string]string{"TITLE": "With Art"}, image)

	records, err := flacRecords(path)
	if err != nil {
		t.Fatalf("flacRecords() error = %v", err)
	}

	rec := findRecord(records, "METADATA_BLOCK_PICTURE")
	if rec == nil {
		t.Fatal("no artwork record for a file with a picture block")
	}
	v, err := rec.Load()
	if err != nil {
		t.Fatalf("artwork Load() error = %v", err)
	}
	data, ok := v.([]byte)
	if !ok {
		t.Fatalf("artwork Load() = %T, want []byte", v)
	}

	// The record must carry the image data, not the picture block with its
	// type/MIME/dimension headers still attached.
	if !bytes.Equal(data, image) {
		t.Errorf("artwork = % x, want % x", data, image)
	}
}

func TestFLACRecords_MetadataOnlyFile(t *testing.T) {
	// No audio frames at all; reading must not touch the frame stream.
	path := filepath.Join(t.TempDir(), "truncated.flac")
	f := &goflac.File{Meta: []*goflac.MetaDataBlock{
		{Type: goflac.StreamInfo, Data: make([]byte, 34)},
	}}
	if err := f.Save(path); err != nil {
		t.Fatalf("failed to create test FLAC: %v", err)
	}

	records, err := flacRecords(path)
	if err != nil {
		t.Fatalf("flacRecords() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %d, want 0 for a file with no tags", len(records))
	}
}

func TestFLACRecords_TruncatedHeaderIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.flac")
	if err := os.WriteFile(path, []byte("fLaC\x00"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := flacRecords(path); err == nil {
		t.Error("flacRecords() expected error for a truncated header, got nil")
	}
}
