package metadata

// Record is a single raw metadata field extracted from a media asset: a tag
// identifying the field and a lazily loadable value. The record list handed
// to a Resolver is captured once, up front, by the host; the resolver never
// fetches records itself.
type Record struct {
	// Tag is the raw field identifier (ID3 frame id, MP4 atom, Vorbis name).
	Tag string
	// Load produces the raw value. It may be called from a background
	// goroutine and must be safe for concurrent use with other records'
	// loaders.
	Load func() (any, error)
}
