package generate

import (
	"fmt"
	"os"
	"strings"

	"picture-word/internal/config"
)

const (
	languagePlaceholder = "{{language}}"
	topicPlaceholder    = "{{topic}}"
	wordPlaceholder     = "{{word}}"
)

// Prompts holds the generation prompt templates. Templates use
// {{language}}, {{topic}} and {{word}} placeholders.
type Prompts struct {
	Concrete   string
	Abstract   string
	Topic      string
	Compliment string
	Picture    string
}

// LoadPrompts reads the prompt template files named in config.
func LoadPrompts(cfg config.Config) (Prompts, error) {
	var prompts Prompts
	var err error
	if prompts.Concrete, err = readPromptFile(cfg.PromptConcretePath); err != nil {
		return Prompts{}, err
	}
	if prompts.Abstract, err = readPromptFile(cfg.PromptAbstractPath); err != nil {
		return Prompts{}, err
	}
	if prompts.Topic, err = readPromptFile(cfg.PromptTopicPath); err != nil {
		return Prompts{}, err
	}
	if prompts.Compliment, err = readPromptFile(cfg.PromptComplimentPath); err != nil {
		return Prompts{}, err
	}
	if prompts.Picture, err = readPromptFile(cfg.PromptPicturePath); err != nil {
		return Prompts{}, err
	}
	return prompts, nil
}

func readPromptFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt template: %s", path)
	}
	return strings.TrimSpace(string(content)), nil
}

func (p Prompts) concrete(language string) string {
	return strings.ReplaceAll(p.Concrete, languagePlaceholder, language)
}

func (p Prompts) abstract(language string) string {
	return strings.ReplaceAll(p.Abstract, languagePlaceholder, language)
}

func (p Prompts) topic(topic, language string) string {
	prompt := strings.ReplaceAll(p.Topic, topicPlaceholder, topic)
	return strings.ReplaceAll(prompt, languagePlaceholder, language)
}

func (p Prompts) compliment(word, language string) string {
	prompt := strings.ReplaceAll(p.Compliment, wordPlaceholder, word)
	prompt = strings.ReplaceAll(prompt, languagePlaceholder, language)
	if language != "English" {
		prompt += " Do not include an English translation."
	}
	return prompt
}

func (p Prompts) picture(word string) string {
	return strings.ReplaceAll(p.Picture, wordPlaceholder, word)
}
