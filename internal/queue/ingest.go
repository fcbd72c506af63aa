package queue

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/lvasseur/ondine/internal/mediatype"
)

// Options controls bulk ingestion.
type Options struct {
	// Types is the allowed-type filter. Folders expand only when the folder
	// type is present.
	Types []mediatype.Type
	// MoveCursor allows ingestion to move an unset or stale cursor to the
	// first appended item.
	MoveCursor bool
	// Recurse expands directories below the top level. Descent is unbounded
	// and cyclic symlinks are not guarded against.
	Recurse bool
}

// DefaultOptions ingests audio and video, expands the top-level folder only,
// and lets the cursor move.
func DefaultOptions() Options {
	return Options{
		Types:      mediatype.Playable(),
		MoveCursor: true,
		Recurse:    false,
	}
}

// Ingest appends playable items found at location. Directories enumerate
// their direct children and feed each child back through Ingest; when
// recursion is off the child filter has container types stripped, so child
// directories never expand, while the recursion flag itself passes through
// unchanged. Conforming leaves append (moving the cursor per Options);
// non-conforming leaves are skipped silently.
//
// Nothing here fails the caller: missing locations and access errors are
// logged and skipped, and ingestion continues with the remaining entries.
func (q *Queue) Ingest(fsys afero.Fs, location string, opts Options, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}

	info, err := fsys.Stat(location)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("ingest location does not exist", zap.String("path", location))
		} else {
			log.Warn("ingest location not accessible", zap.String("path", location), zap.Error(err))
		}
		return
	}

	if info.IsDir() {
		if !mediatype.Contains(opts.Types, mediatype.Folder) {
			return
		}
		children, err := afero.ReadDir(fsys, location)
		if err != nil {
			log.Warn("cannot enumerate folder", zap.String("path", location), zap.Error(err))
			return
		}
		childOpts := opts
		if !opts.Recurse {
			childOpts.Types = mediatype.WithoutContainers(opts.Types)
		}
		for _, child := range children {
			q.Ingest(fsys, filepath.Join(location, child.Name()), childOpts, log)
		}
		return
	}

	if !mediatype.Conforms(location, opts.Types) {
		return
	}
	q.appendItem(Item{Path: location, Size: info.Size()}, opts.MoveCursor)
	log.Debug("queued item", zap.String("path", location), zap.Int64("size", info.Size()))
}
