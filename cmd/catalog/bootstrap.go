package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"musiccatalog/internal/app/albums"
	"musiccatalog/internal/app/artists"
	"musiccatalog/internal/app/tracks"
)

type seedTrack struct {
	Title    string
	Duration int
}

type seedAlbum struct {
	Title  string
	Year   int
	Tracks []seedTrack
}

type seedArtist struct {
	Name   string
	Genre  string
	Albums []seedAlbum
}

var demoCatalog = []seedArtist{
	{
		Name:  "Boards of Canada",
		Genre: "Electronic",
		Albums: []seedAlbum{{
			Title: "Music Has the Right to Children",
			Year:  1998,
			Tracks: []seedTrack{
				{Title: "Turquoise Hexagon Sun", Duration: 307},
				{Title: "Roygbiv", Duration: 151},
				{Title: "Aquarius", Duration: 359},
			},
		}},
	},
	{
		Name:  "Massive Attack",
		Genre: "Trip Hop",
		Albums: []seedAlbum{{
			Title: "Mezzanine",
			Year:  1998,
			Tracks: []seedTrack{
				{Title: "Angel", Duration: 379},
				{Title: "Teardrop", Duration: 330},
				{Title: "Inertia Creeps", Duration: 357},
			},
		}},
	},
	{
		Name:  "Portishead",
		Genre: "Trip Hop",
		Albums: []seedAlbum{{
			Title: "Dummy",
			Year:  1994,
			Tracks: []seedTrack{
				{Title: "Mysterons", Duration: 302},
				{Title: "Sour Times", Duration: 254},
				{Title: "Glory Box", Duration: 306},
			},
		}},
	},
	{
		Name:  "Nils Frahm",
		Genre: "Modern Classical",
		Albums: []seedAlbum{{
			Title: "Spaces",
			Year:  2013,
			Tracks: []seedTrack{
				{Title: "An Aborted Beginning", Duration: 178},
				{Title: "Says", Duration: 499},
				{Title: "Hammers", Duration: 371},
			},
		}},
	},
}

type catalogServices struct {
	artists artists.Service
	albums  albums.Service
	tracks  tracks.Service
}

// bootstrapDemoData fills an empty catalog with a few well known records.
// A catalog that already holds artists is left untouched.
func bootstrapDemoData(ctx context.Context, svc catalogServices) error {
	existing, err := svc.artists.List(ctx)
	if err != nil {
		return fmt.Errorf("check existing artists: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	var albumCount, trackCount int
	for _, a := range demoCatalog {
		genre := a.Genre
		artist, err := svc.artists.Create(ctx, artists.CreateInput{Name: a.Name, Genre: &genre})
		if err != nil {
			return fmt.Errorf("seed artist %q: %w", a.Name, err)
		}

		for _, al := range a.Albums {
			album, err := svc.albums.Create(ctx, albums.CreateInput{
				Title:       al.Title,
				ReleaseYear: al.Year,
				ArtistID:    artist.ID,
			})
			if err != nil {
				return fmt.Errorf("seed album %q: %w", al.Title, err)
			}
			albumCount++

			for _, t := range al.Tracks {
				if _, err := svc.tracks.Create(ctx, tracks.CreateInput{
					Title:    t.Title,
					Duration: t.Duration,
					AlbumID:  album.ID,
				}); err != nil {
					return fmt.Errorf("seed track %q: %w", t.Title, err)
				}
				trackCount++
			}
		}
	}

	log.Info().
		Int("artists", len(demoCatalog)).
		Int("albums", albumCount).
		Int("tracks", trackCount).
		Msg("seeded demo catalog")
	return nil
}
