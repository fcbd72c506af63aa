// Probe tool: resolves every predeclared metadata key for a file and prints
// the results, using the blocking lookup form.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/lvasseur/ondine/internal/metadata"
	"github.com/lvasseur/ondine/internal/tags"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <media-file>\n", os.Args[0])
		os.Exit(2)
	}
	path := os.Args[1]

	info, err := os.Stat(path)
	if err != nil {
		log.Fatalf("Failed to stat file: %v", err)
	}

	records, err := tags.Records(path)
	if err != nil {
		log.Fatalf("Failed to read metadata records: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
	resolver := metadata.New(records, logger)
	defer resolver.Close()

	ctx := context.Background()

	fmt.Printf("%s (%s, %d raw records)\n\n", path, humanize.IBytes(uint64(info.Size())), len(records))

	printString(ctx, resolver, metadata.Title)
	printString(ctx, resolver, metadata.Artist)
	printString(ctx, resolver, metadata.Album)
	printString(ctx, resolver, metadata.AlbumArtist)
	printString(ctx, resolver, metadata.Genre)
	printString(ctx, resolver, metadata.Date)

	if n, ok := metadata.Await(ctx, resolver, metadata.TrackNumber); ok {
		fmt.Printf("%-14s %d\n", metadata.TrackNumber.ID, n)
	} else {
		fmt.Printf("%-14s -\n", metadata.TrackNumber.ID)
	}

	if art, ok := metadata.Await(ctx, resolver, metadata.Artwork); ok && len(art) > 0 {
		fmt.Printf("%-14s %s\n", metadata.Artwork.ID, humanize.IBytes(uint64(len(art))))
	} else {
		fmt.Printf("%-14s -\n", metadata.Artwork.ID)
	}
}

func printString(ctx context.Context, r *metadata.Resolver, key metadata.Key[string]) {
	if v, ok := metadata.Await(ctx, r, key); ok {
		fmt.Printf("%-14s %s\n", key.ID, v)
	} else {
		fmt.Printf("%-14s -\n", key.ID)
	}
}
