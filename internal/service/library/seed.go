package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aimd54/gametracker/internal/models"
)

// SeedFile is the YAML document used to pre-populate an empty library.
type SeedFile struct {
	Games []SeedGame `yaml:"games"`
}

// SeedGame is one game of a seed file with its reviews.
type SeedGame struct {
	Title       string       `yaml:"title"`
	Genre       string       `yaml:"genre"`
	Platform    string       `yaml:"platform"`
	ReleaseYear int          `yaml:"release_year"`
	Developer   string       `yaml:"developer"`
	CoverImage  string       `yaml:"cover_image"`
	Description string       `yaml:"description"`
	Status      string       `yaml:"status"`
	Completed   *bool        `yaml:"completed"`
	HoursPlayed float64      `yaml:"hours_played"`
	InLibrary   bool         `yaml:"in_library"`
	Favorite    bool         `yaml:"favorite"`
	Reviews     []SeedReview `yaml:"reviews"`
}

// SeedReview is one review of a seeded game.
type SeedReview struct {
	Rating      int     `yaml:"rating"`
	Body        string  `yaml:"body"`
	HoursPlayed float64 `yaml:"hours_played"`
	Difficulty  string  `yaml:"difficulty"`
	Recommended *bool   `yaml:"recommended"`
}

// SeedResult reports what a seed run did.
type SeedResult struct {
	Games   int
	Reviews int
	Skipped int
}

// ParseSeed decodes a seed document.
func ParseSeed(r io.Reader) (*SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

// SeedFromFile loads path and seeds the library with it.
func (s *Service) SeedFromFile(ctx context.Context, path string) (SeedResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	seed, err := ParseSeed(f)
	if err != nil {
		return SeedResult{}, err
	}
	return s.Seed(ctx, seed)
}

// Seed creates every game of the seed that is not already in the library, with its reviews.
// Games whose title already exists are skipped, so seeding twice is harmless.
func (s *Service) Seed(ctx context.Context, seed *SeedFile) (SeedResult, error) {
	var res SeedResult
	for i := range seed.Games {
		sg := &seed.Games[i]

		g, err := s.CreateGame(ctx, sg.input())
		if errors.Is(err, models.ErrDuplicateTitle) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed game %q: %w", sg.Title, err)
		}
		res.Games++

		for j := range sg.Reviews {
			in := sg.Reviews[j].input(g.ID)
			if _, err := s.CreateReview(ctx, in); err != nil {
				return res, fmt.Errorf("seed review %d of %q: %w", j+1, sg.Title, err)
			}
			res.Reviews++
		}
	}

	s.log.Info().
		Int("games", res.Games).
		Int("reviews", res.Reviews).
		Int("skipped", res.Skipped).
		Msg("Library seeded")

	return res, nil
}

func (sg *SeedGame) input() GameInput {
	return GameInput{
		Title:       &sg.Title,
		Genre:       &sg.Genre,
		Platform:    &sg.Platform,
		ReleaseYear: &sg.ReleaseYear,
		Developer:   &sg.Developer,
		CoverImage:  &sg.CoverImage,
		Description: &sg.Description,
		Status:      &sg.Status,
		Completed:   sg.Completed,
		HoursPlayed: &sg.HoursPlayed,
		InLibrary:   &sg.InLibrary,
		Favorite:    &sg.Favorite,
	}
}

func (sr *SeedReview) input(gameID string) ReviewInput {
	return ReviewInput{
		GameID:      &gameID,
		Rating:      &sr.Rating,
		Body:        &sr.Body,
		HoursPlayed: &sr.HoursPlayed,
		Difficulty:  &sr.Difficulty,
		Recommended: sr.Recommended,
	}
}
