// Package food resolves a free-text product query to its nutrition facts.
// The production lookup asks an LLM for a json-schema constrained answer,
// which handles misspellings and any language the user writes in.
package food

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// ErrNotFound is returned when the query does not resolve to a food product.
var ErrNotFound = errors.New("food: not found")

// Item is one resolved product.
type Item struct {
	Name            string
	CaloriesPer100g float64
	Glyph           string
}

// Lookup resolves a product query.
type Lookup interface {
	Find(ctx context.Context, query string) (*Item, error)
}

// LLM implements Lookup with a chat completion constrained to foodInfo.
type LLM struct {
	client openai.Client
	model  string
}

// NewLLM builds the lookup. baseURL may point at any OpenAI-compatible API
// (the upstream default when empty).
func NewLLM(apiKey, baseURL, model string) *LLM {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &LLM{client: openai.NewClient(opts...), model: model}
}

const findPrompt = `You are a nutrition database. Given a food product name,
return its canonical name, typical calories per 100 grams and one matching
food emoji. If the input is not a recognizable food product, set found to
false. Answer for the generic product, not a specific brand.`

func (l *LLM) Find(ctx context.Context, query string) (*Item, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "food_info",
		Description: openai.String("Nutrition facts for one food product"),
		Schema:      foodInfoSchema,
		Strict:      openai.Bool(true),
	}
	chat, err := l.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(findPrompt),
			openai.UserMessage(query),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
		Model: l.model,
	})
	if err != nil {
		return nil, fmt.Errorf("food lookup request failed: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, ErrNotFound
	}

	item, err := parseFoodInfo(chat.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func parseFoodInfo(raw string) (*Item, error) {
	var info foodInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return nil, fmt.Errorf("failed to decode food info: %w", err)
	}
	if !info.Found || info.Name == "" || info.CaloriesPer100g <= 0 {
		return nil, ErrNotFound
	}
	glyph := info.Glyph
	if glyph == "" {
		glyph = "🍽️"
	}
	return &Item{Name: info.Name, CaloriesPer100g: info.CaloriesPer100g, Glyph: glyph}, nil
}
