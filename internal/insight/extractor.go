// Package insight turns a completed survey submission into retention
// recommendations by prompting a text-generation model and parsing its
// free-form reply.
package insight

import (
	"context"
	"errors"
	"fmt"
	"log"

	"wellness-survey-service/internal/domain"
	"wellness-survey-service/internal/gemini"
)

// TextGenerator is the slice of the model client the extractor needs.
type TextGenerator interface {
	Configured() bool
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Extractor builds the prompt, makes exactly one model call, and parses the
// reply. It implements app.RecommendationGenerator.
type Extractor struct {
	generator TextGenerator
}

func NewExtractor(generator TextGenerator) *Extractor {
	return &Extractor{generator: generator}
}

// GenerateRecommendations never returns an error: every failure class is
// converted into a one-element recommendations list carrying a displayable
// message, so a broken model integration cannot take down the survey itself.
func (e *Extractor) GenerateRecommendations(ctx context.Context, department string, ratings map[string]int) domain.RecommendationResult {
	if !e.generator.Configured() {
		return errorResult("Error: AI recommendations are not configured. Set GEMINI_API_KEY to enable them.")
	}

	reply, err := e.generator.GenerateContent(ctx, BuildPrompt(department, ratings))
	if err != nil {
		log.Printf("recommendation generation failed for %s: %v", department, err)
		return errorResult(messageFor(err))
	}
	return ParseReply(reply)
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, gemini.ErrNotConfigured):
		return "Error: AI recommendations are not configured. Set GEMINI_API_KEY to enable them."
	case errors.Is(err, gemini.ErrUnavailable):
		return fmt.Sprintf("Error connecting to AI service: %v. Please check your API key and network connection.", err)
	case errors.Is(err, gemini.ErrInvalidResponse):
		return "Error: Could not parse AI response. The response was not valid JSON."
	case errors.Is(err, gemini.ErrNoCandidates):
		return "Error: No recommendations could be generated by the AI. The response structure was unexpected."
	default:
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}
}

func errorResult(message string) domain.RecommendationResult {
	return domain.RecommendationResult{Recommendations: []string{message}}
}
