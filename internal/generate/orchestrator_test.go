package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"picture-word/internal/assets"

	"github.com/rs/zerolog"
)

var testPrompts = Prompts{
	Concrete:   "concrete {{language}}",
	Abstract:   "abstract {{language}}",
	Topic:      "topic {{topic}} {{language}}",
	Compliment: "compliment {{word}}",
	Picture:    "picture {{word}}",
}

type fakeText struct {
	mu      sync.Mutex
	prompts []string
	respond func(prompt string) (string, error)
}

func (f *fakeText) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.respond(prompt)
}

func (f *fakeText) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

type fakeImages struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeImages) Generate(ctx context.Context, prompt string) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return []byte("generated-image"), nil
}

func (f *fakeImages) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCatalog struct {
	mu       sync.Mutex
	has      bool
	picture  string
	stored   [][]byte
	storedCh chan struct{}
}

func (f *fakeCatalog) HasExistingPicture(ctx context.Context, word, language string) (bool, error) {
	return f.has, nil
}

func (f *fakeCatalog) SelectPicture(ctx context.Context, word, language string) (string, error) {
	if f.picture == "" {
		return "", assets.ErrNotFound
	}
	return f.picture, nil
}

func (f *fakeCatalog) StoreGenerated(ctx context.Context, word, language string, image []byte) error {
	f.mu.Lock()
	f.stored = append(f.stored, image)
	f.mu.Unlock()
	if f.storedCh != nil {
		f.storedCh <- struct{}{}
	}
	return nil
}

func (f *fakeCatalog) storedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored)
}

type fakeHistory struct {
	shown func(word string) (bool, error)
}

func (f *fakeHistory) WordShownSince(ctx context.Context, word string, since time.Time) (bool, error) {
	if f.shown == nil {
		return false, nil
	}
	return f.shown(word)
}

func newTestOrchestrator(text *fakeText, images *fakeImages, catalog *fakeCatalog, history *fakeHistory) *Orchestrator {
	return &Orchestrator{
		text:           text,
		images:         images,
		catalog:        catalog,
		history:        history,
		prompts:        testPrompts,
		fallback:       func() string { return "fallbackword" },
		wordLengthMax:  12,
		easyGamesCount: 5,
		maxAttempts:    12,
		log:            zerolog.Nop(),
		intN:           func(n int) int { return 0 },
		timeNow:        time.Now,
	}
}

func respondWord(word string) func(string) (string, error) {
	return func(prompt string) (string, error) {
		if strings.HasPrefix(prompt, "compliment") {
			return "Great job!", nil
		}
		return word, nil
	}
}

func TestChanceBelowEasyFloorIsAlwaysTrue(t *testing.T) {
	o := newTestOrchestrator(nil, nil, nil, nil)
	// Worst possible draw for every score under the floor.
	o.intN = func(n int) int { return 0 }
	for score := 0; score < o.easyGamesCount; score++ {
		if !o.chance(score) {
			t.Fatalf("score %d below the easy floor must be concrete", score)
		}
	}
}

func TestChanceAboveFloorFollowsDraw(t *testing.T) {
	o := newTestOrchestrator(nil, nil, nil, nil)
	o.intN = func(n int) int { return 0 }
	if o.chance(10) {
		t.Fatal("draw 0 against score 10 should be abstract")
	}
	o.intN = func(n int) int { return 5 }
	if !o.chance(10) {
		t.Fatal("draw 5 against score 10 should be concrete")
	}
}

func TestProduceRoundEasyScoreUsesConcreteRegister(t *testing.T) {
	text := &fakeText{respond: respondWord("cat")}
	catalog := &fakeCatalog{}
	o := newTestOrchestrator(text, &fakeImages{}, catalog, &fakeHistory{})

	result, err := o.ProduceRound(context.Background(), "", 0, "English")
	if err != nil {
		t.Fatalf("ProduceRound: %v", err)
	}
	if result.Word != "cat" {
		t.Fatalf("unexpected word %q", result.Word)
	}
	for _, prompt := range text.seen() {
		if strings.HasPrefix(prompt, "abstract") {
			t.Fatalf("abstract register used for an easy score: %q", prompt)
		}
	}
	if text.seen()[0] != "concrete English" {
		t.Fatalf("expected concrete register, got %q", text.seen()[0])
	}
}

func TestProduceRoundTopicOverridesRegister(t *testing.T) {
	text := &fakeText{respond: respondWord("cat")}
	o := newTestOrchestrator(text, &fakeImages{}, &fakeCatalog{}, &fakeHistory{})

	if _, err := o.ProduceRound(context.Background(), "animals", 0, "English"); err != nil {
		t.Fatalf("ProduceRound: %v", err)
	}
	if text.seen()[0] != "topic animals English" {
		t.Fatalf("expected topic register, got %q", text.seen()[0])
	}
}

func TestProduceRoundFallsBackAfterRepeats(t *testing.T) {
	text := &fakeText{respond: respondWord("cat")}
	history := &fakeHistory{shown: func(word string) (bool, error) { return true, nil }}
	o := newTestOrchestrator(text, &fakeImages{}, &fakeCatalog{}, history)

	result, err := o.ProduceRound(context.Background(), "", 0, "English")
	if err != nil {
		t.Fatalf("ProduceRound: %v", err)
	}
	if result.Word != "fallbackword" {
		t.Fatalf("expected fallback word, got %q", result.Word)
	}
}

func TestProduceRoundRejectsTooLongWords(t *testing.T) {
	words := []string{"extraordinarily", "cat"}
	var calls int
	text := &fakeText{respond: func(prompt string) (string, error) {
		if strings.HasPrefix(prompt, "compliment") {
			return "Great job!", nil
		}
		word := words[calls%len(words)]
		calls++
		return word, nil
	}}
	o := newTestOrchestrator(text, &fakeImages{}, &fakeCatalog{}, &fakeHistory{})

	result, err := o.ProduceRound(context.Background(), "", 0, "English")
	if err != nil {
		t.Fatalf("ProduceRound: %v", err)
	}
	if result.Word != "cat" {
		t.Fatalf("expected the too-long word to be rejected, got %q", result.Word)
	}
}

func TestProduceRoundExhaustsRetryBudget(t *testing.T) {
	text := &fakeText{respond: func(prompt string) (string, error) {
		return "", fmt.Errorf("model overloaded: %w", ErrTransient)
	}}
	o := newTestOrchestrator(text, &fakeImages{}, &fakeCatalog{}, &fakeHistory{})
	o.maxAttempts = 4

	_, err := o.ProduceRound(context.Background(), "", 0, "English")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if got := len(text.seen()); got != 4 {
		t.Fatalf("expected 4 attempts, got %d", got)
	}
}

func TestProduceRoundHistoryErrorIsTerminal(t *testing.T) {
	storeDown := errors.New("store unreachable")
	text := &fakeText{respond: respondWord("cat")}
	history := &fakeHistory{shown: func(word string) (bool, error) { return false, storeDown }}
	o := newTestOrchestrator(text, &fakeImages{}, &fakeCatalog{}, history)

	_, err := o.ProduceRound(context.Background(), "", 0, "English")
	if !errors.Is(err, storeDown) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestProduceRoundGeneratesAndStoresMissingPicture(t *testing.T) {
	text := &fakeText{respond: respondWord("cat")}
	images := &fakeImages{}
	catalog := &fakeCatalog{}
	o := newTestOrchestrator(text, images, catalog, &fakeHistory{})

	result, err := o.ProduceRound(context.Background(), "", 0, "English")
	if err != nil {
		t.Fatalf("ProduceRound: %v", err)
	}
	if images.callCount() != 1 {
		t.Fatalf("expected one synchronous image call, got %d", images.callCount())
	}
	if catalog.storedCount() != 1 {
		t.Fatalf("expected one stored image, got %d", catalog.storedCount())
	}
	if result.Picture != assets.EncodeDataURL([]byte("generated-image")) {
		t.Fatalf("picture reference mismatch: %q", result.Picture)
	}
}

func TestProduceRoundReusesExistingPictureAndEnriches(t *testing.T) {
	text := &fakeText{respond: respondWord("cat")}
	images := &fakeImages{}
	catalog := &fakeCatalog{
		has:      true,
		picture:  "data:image/png;base64,ZXhpc3Rpbmc=",
		storedCh: make(chan struct{}, 1),
	}
	o := newTestOrchestrator(text, images, catalog, &fakeHistory{})

	result, err := o.ProduceRound(context.Background(), "", 0, "English")
	if err != nil {
		t.Fatalf("ProduceRound: %v", err)
	}
	if result.Picture != catalog.picture {
		t.Fatalf("expected the stored picture, got %q", result.Picture)
	}

	select {
	case <-catalog.storedCh:
	case <-time.After(2 * time.Second):
		t.Fatal("background enrichment never stored a picture")
	}
	if images.callCount() != 1 {
		t.Fatalf("expected exactly the enrichment image call, got %d", images.callCount())
	}
}

func TestProduceRoundEnrichmentFailureIsSwallowed(t *testing.T) {
	text := &fakeText{respond: respondWord("cat")}
	images := &fakeImages{err: fmt.Errorf("image service down: %w", ErrTransient)}
	catalog := &fakeCatalog{has: true, picture: "data:image/png;base64,ZXhpc3Rpbmc="}
	o := newTestOrchestrator(text, images, catalog, &fakeHistory{})

	result, err := o.ProduceRound(context.Background(), "", 0, "English")
	if err != nil {
		t.Fatalf("enrichment failure must not surface: %v", err)
	}
	if result.Picture != catalog.picture {
		t.Fatalf("expected the stored picture, got %q", result.Picture)
	}
}

func TestComplimentFallsBackOnGeneratorFailure(t *testing.T) {
	text := &fakeText{respond: func(prompt string) (string, error) {
		if strings.HasPrefix(prompt, "compliment") {
			return "", fmt.Errorf("model overloaded: %w", ErrTransient)
		}
		return "cat", nil
	}}
	o := newTestOrchestrator(text, &fakeImages{}, &fakeCatalog{}, &fakeHistory{})

	result, err := o.ProduceRound(context.Background(), "", 0, "English")
	if err != nil {
		t.Fatalf("ProduceRound: %v", err)
	}
	if result.Compliment != fallbackCompliment {
		t.Fatalf("expected fallback compliment, got %q", result.Compliment)
	}
}

func TestComplimentPromptAddsTranslationSuffix(t *testing.T) {
	french := testPrompts.compliment("chat", "French")
	if !strings.Contains(french, "Do not include an English translation.") {
		t.Fatalf("missing translation suffix: %q", french)
	}
	english := testPrompts.compliment("cat", "English")
	if strings.Contains(english, "translation") {
		t.Fatalf("unexpected suffix for English: %q", english)
	}
}
