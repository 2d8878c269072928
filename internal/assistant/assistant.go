// Package assistant suggests a scheme for a visitor's monthly budget.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chitsmart/internal/calc"

	"github.com/google/generative-ai-go/genai"
)

var ErrEmptyResponse = errors.New("assistant returned no text")

type Suggester interface {
	Suggest(ctx context.Context, budget int64, schemes []calc.View) (string, error)
}

// Gemini wraps a configured generative model.
type Gemini struct {
	model *genai.GenerativeModel
}

func NewGemini(model *genai.GenerativeModel) *Gemini {
	return &Gemini{model: model}
}

func (g *Gemini) Suggest(ctx context.Context, budget int64, schemes []calc.View) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(Prompt(budget, schemes)))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(b.String()), nil
}

// Prompt lists every scheme with its derived figures so the model only
// recommends plans that exist.
func Prompt(budget int64, schemes []calc.View) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant for ChitSmart, a chit fund in India. ")
	b.WriteString("Recommend at most two of the schemes below for a member who can contribute ")
	fmt.Fprintf(&b, "Rs. %d per month. Answer in English in three sentences or fewer. ", budget)
	b.WriteString("Only mention schemes from this list and never invent figures.\n\nSchemes:\n")
	for _, s := range schemes {
		fmt.Fprintf(&b, "- %s: value %s, monthly %s, %s, %d members\n",
			s.Title, s.AmountLabel, s.Monthly, s.Duration, s.Members)
	}
	return b.String()
}
