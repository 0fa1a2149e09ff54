package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/tmacready/daybreak/internal/domain/almanac"
)

// Verse is the verse-of-the-day provider wrapper.
type Verse struct {
	client
}

// NewVerse creates a verse client against the given endpoint.
func NewVerse(endpoint string, timeout time.Duration, opts ...Option) (*Verse, error) {
	c, err := newClient(endpoint, timeout, opts...)
	if err != nil {
		return nil, err
	}

	return &Verse{client: c}, nil
}

// verseResponse is the provider's verse JSON shape.
type verseResponse struct {
	// Text is the verse body.
	Text string `json:"text"`
	// Reference names the verse's source.
	Reference string `json:"reference"`
}

// OfTheDay fetches today's verse.
func (v *Verse) OfTheDay(ctx context.Context) (*almanac.Verse, error) {
	var response verseResponse
	if err := v.getJSON(ctx, nil, &response); err != nil {
		return nil, fmt.Errorf("fetch verse: %w", err)
	}

	return &almanac.Verse{
		Text:      response.Text,
		Reference: response.Reference,
	}, nil
}

// Bird is the bird-of-the-day provider wrapper.
type Bird struct {
	client
}

// NewBird creates a bird client against the given endpoint.
func NewBird(endpoint string, timeout time.Duration, opts ...Option) (*Bird, error) {
	c, err := newClient(endpoint, timeout, opts...)
	if err != nil {
		return nil, err
	}

	return &Bird{client: c}, nil
}

// birdResponse is the provider's bird JSON shape.
type birdResponse struct {
	// Name is the bird's common name.
	Name string `json:"name"`
	// Fact is a one-sentence note about it.
	Fact string `json:"fact"`
}

// OfTheDay fetches today's bird.
func (b *Bird) OfTheDay(ctx context.Context) (*almanac.Bird, error) {
	var response birdResponse
	if err := b.getJSON(ctx, nil, &response); err != nil {
		return nil, fmt.Errorf("fetch bird: %w", err)
	}

	return &almanac.Bird{
		Name: response.Name,
		Fact: response.Fact,
	}, nil
}
