package generate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"picture-word/internal/assets"
	"picture-word/internal/config"
	"picture-word/internal/words"

	"github.com/rs/zerolog"
)

const (
	wordMaxTokens       = 10
	complimentMaxTokens = 16

	// After this many consecutive already-shown rejections the loop
	// stops asking the generator and draws from the static word list.
	consecutiveShownLimit = 3

	freshnessWindow = 24 * time.Hour
	enrichTimeout   = 2 * time.Minute
)

const fallbackCompliment = "Well done!"

// Orchestrator produces the word and picture for a new round.
type Orchestrator struct {
	text    TextGenerator
	images  ImageGenerator
	catalog Catalog
	history History
	prompts Prompts

	fallback       func() string
	wordLengthMax  int
	easyGamesCount int
	maxAttempts    int
	log            zerolog.Logger

	intN    func(n int) int
	timeNow func() time.Time
}

func NewOrchestrator(text TextGenerator, images ImageGenerator, catalog Catalog, history History, prompts Prompts, cfg config.Config, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		text:           text,
		images:         images,
		catalog:        catalog,
		history:        history,
		prompts:        prompts,
		fallback:       words.Random,
		wordLengthMax:  cfg.WordLengthMax,
		easyGamesCount: cfg.EasyGamesCount,
		maxAttempts:    cfg.GenerateAttemptsMax,
		log:            log,
		intN:           rand.Intn,
		timeNow:        time.Now,
	}
}

// ProduceRound runs the bounded generate loop: pick a candidate word,
// reject it if it was shown in the last 24 hours or is too long, then
// resolve its picture. Transient generator failures retry; everything
// else is terminal. When the retry budget runs out the caller gets
// ErrExhausted.
func (o *Orchestrator) ProduceRound(ctx context.Context, topic string, score int, language string) (Result, error) {
	consecutiveShown := 0
	for attempt := 0; attempt < o.maxAttempts; attempt++ {
		word, fromFallback, err := o.nextWord(ctx, topic, score, language, consecutiveShown)
		if err != nil {
			if errors.Is(err, ErrTransient) {
				o.log.Warn().Err(err).Int("attempt", attempt).Msg("word generation failed, retrying")
				continue
			}
			return Result{}, err
		}

		// The fallback path is a last resort and is accepted as-is,
		// without the freshness and length checks.
		if !fromFallback {
			shown, err := o.history.WordShownSince(ctx, word, o.timeNow().Add(-freshnessWindow))
			if err != nil {
				return Result{}, err
			}
			if shown {
				consecutiveShown++
				o.log.Info().Str("word", word).Msg("word already shown today, retrying")
				continue
			}
			if len([]rune(word)) > o.wordLengthMax {
				consecutiveShown = 0
				o.log.Info().Str("word", word).Int("max", o.wordLengthMax).Msg("word too long, retrying")
				continue
			}
		}

		picture, err := o.resolvePicture(ctx, word, language)
		if err != nil {
			if errors.Is(err, ErrTransient) {
				consecutiveShown = 0
				o.log.Warn().Err(err).Str("word", word).Msg("picture generation failed, retrying")
				continue
			}
			return Result{}, err
		}

		return Result{
			Word:       word,
			Picture:    picture,
			Compliment: o.generateCompliment(ctx, word, language),
		}, nil
	}
	return Result{}, ErrExhausted
}

func (o *Orchestrator) nextWord(ctx context.Context, topic string, score int, language string, consecutiveShown int) (string, bool, error) {
	if consecutiveShown > consecutiveShownLimit {
		word := o.fallback()
		o.log.Info().Str("word", word).Msg("generator repeating itself, drawing from fallback list")
		return word, true, nil
	}

	var prompt string
	switch {
	case topic != "":
		prompt = o.prompts.topic(topic, language)
	case o.chance(score):
		prompt = o.prompts.concrete(language)
	default:
		prompt = o.prompts.abstract(language)
	}

	raw, err := o.text.Complete(ctx, prompt, wordMaxTokens)
	if err != nil {
		return "", false, err
	}
	word := strings.ToLower(strings.TrimSpace(raw))
	if word == "" {
		return "", false, fmt.Errorf("generator returned an empty word: %w", ErrTransient)
	}
	return word, false, nil
}

// chance decides between the concrete and abstract prompt registers.
// Scores below the easy-games floor always land concrete; above it the
// abstract register gets more likely as the score grows, but a draw of
// score/2 or better still yields an easy game.
func (o *Orchestrator) chance(score int) bool {
	if score < o.easyGamesCount {
		return true
	}
	draw := o.intN(score + 1)
	return draw >= score/2
}

func (o *Orchestrator) resolvePicture(ctx context.Context, word, language string) (string, error) {
	exists, err := o.catalog.HasExistingPicture(ctx, word, language)
	if err != nil {
		return "", err
	}
	if exists {
		picture, err := o.catalog.SelectPicture(ctx, word, language)
		if err == nil {
			// Grow the variant pool off the critical path.
			o.enrichVariants(word, language)
			return picture, nil
		}
		if !errors.Is(err, assets.ErrNotFound) {
			return "", err
		}
		// Stale read between the existence check and the select:
		// generate a picture as if none existed.
	}

	image, err := o.images.Generate(ctx, o.prompts.picture(word))
	if err != nil {
		return "", err
	}
	if err := o.catalog.StoreGenerated(ctx, word, language, image); err != nil {
		return "", err
	}
	return assets.EncodeDataURL(image), nil
}

// enrichVariants requests one extra picture in the background. It runs
// on its own context so the caller's request lifecycle never waits on
// it; failures are logged and swallowed.
func (o *Orchestrator) enrichVariants(word, language string) {
	ctx, cancel := context.WithTimeout(context.Background(), enrichTimeout)
	go func() {
		defer cancel()
		image, err := o.images.Generate(ctx, o.prompts.picture(word))
		if err != nil {
			o.log.Warn().Err(err).Str("word", word).Msg("background picture enrichment failed")
			return
		}
		if err := o.catalog.StoreGenerated(ctx, word, language, image); err != nil {
			o.log.Warn().Err(err).Str("word", word).Msg("failed to store enrichment picture")
		}
	}()
}

func (o *Orchestrator) generateCompliment(ctx context.Context, word, language string) string {
	raw, err := o.text.Complete(ctx, o.prompts.compliment(word, language), complimentMaxTokens)
	if err != nil {
		o.log.Warn().Err(err).Str("word", word).Msg("compliment generation failed, using fallback")
		return fallbackCompliment
	}
	compliment := strings.TrimSpace(raw)
	if compliment == "" {
		return fallbackCompliment
	}
	return compliment
}
