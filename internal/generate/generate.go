// Package generate produces fresh (word, picture) pairs for new rounds
// by driving the external text and image generators, reusing stored
// pictures, and enforcing the freshness and length policies.
package generate

import (
	"context"
	"errors"
	"time"
)

// ErrTransient marks a retryable generator failure. The orchestrator
// absorbs these inside its retry loop.
var ErrTransient = errors.New("generator transient failure")

// ErrExhausted is returned when the retry budget is spent without
// producing an acceptable word.
var ErrExhausted = errors.New("word generation attempts exhausted")

// TextGenerator is a single-turn text completion call.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// ImageGenerator synthesizes one image for a prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Catalog is the picture store as the orchestrator sees it.
type Catalog interface {
	HasExistingPicture(ctx context.Context, word, language string) (bool, error)
	SelectPicture(ctx context.Context, word, language string) (string, error)
	StoreGenerated(ctx context.Context, word, language string, image []byte) error
}

// History answers whether a word was already shown to players recently.
type History interface {
	WordShownSince(ctx context.Context, word string, since time.Time) (bool, error)
}

// Result is an accepted round candidate: the solution word, a picture
// reference (data URL or hosted URL), and a pre-generated
// congratulatory phrase.
type Result struct {
	Word       string
	Picture    string
	Compliment string
}
