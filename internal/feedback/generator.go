// Package feedback turns extracted biomarker values into educational
// AI-generated commentary.
package feedback

import (
	"context"
	"fmt"
	"strings"

	"labreport-backend/internal/extract"
	"labreport-backend/internal/llm"
	"labreport-backend/internal/shared/telemetry"
)

const (
	// NoValuesMessage is returned without calling the provider when no
	// biomarker was extracted from the document.
	NoValuesMessage = "No medical values were detected in the uploaded document. Please ensure the document contains clear medical test results."

	// DegradedMessage is returned when the provider call fails; the analysis
	// itself still succeeds.
	DegradedMessage = "Unable to generate AI feedback at this time. Please try again later or consult with your healthcare provider for result interpretation."

	systemPrompt = "You are a helpful medical assistant that provides educational information about lab results. Always remind users to consult healthcare professionals."
)

// Generator produces feedback text for extracted values. It is total: every
// failure mode maps to a fixed message, never an error.
type Generator struct {
	client llm.Client
}

// New creates a Generator backed by the given provider client.
func New(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate returns feedback for the extracted values. The provider is only
// consulted when at least one value is present; the raw document text is
// accepted alongside the values but the prompt is built from the structured
// readings alone.
func (g *Generator) Generate(ctx context.Context, values extract.Values, _ string) string {
	readings := values.Present()
	if len(readings) == 0 {
		return NoValuesMessage
	}

	pairs := make([]string, 0, len(readings))
	for _, r := range readings {
		pairs = append(pairs, fmt.Sprintf("%s: %v", r.Label, r.Value))
	}

	prompt := fmt.Sprintf(`You are a medical assistant analyzing laboratory test results. Based on the following extracted values, provide a brief, informative feedback about the results. Be professional and remind the user to consult with their healthcare provider for proper interpretation.

Extracted Medical Values: %s

Please provide:
1. A brief interpretation of the values (if they appear normal, elevated, or low)
2. General health implications (if any)
3. A reminder to consult with a healthcare professional

Keep the response concise (2-3 paragraphs) and educational, not diagnostic.`, strings.Join(pairs, ", "))

	out, err := g.client.Complete(ctx, llm.CompletionInput{
		System:      systemPrompt,
		User:        prompt,
		MaxTokens:   500,
		Temperature: 0.3,
	})
	if err != nil {
		telemetry.Error("feedback.generate_failed", map[string]any{"error": err.Error()})
		return DegradedMessage
	}
	return out
}
