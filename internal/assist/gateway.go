// Package assist relays listing analysis and concierge chat to the Google
// GenAI API. The gateway holds no state beyond the client; callers own the
// transcript and resupply it each call. Failures never propagate: a single
// failed call surfaces a fixed fallback string and is terminal for that
// call, with no retries.
package assist

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"showroom/internal/domain"
)

const (
	summaryFallback = "The analyst is currently offline. Please try again later."
	chatFallback    = "Error connecting to assistant. Please check your connection."

	defaultModel = "gemini-2.0-flash"
)

type Gateway struct {
	client *genai.Client
	model  string
}

// New builds the gateway. An empty API key yields a gateway that always
// answers with the fallback text, so the rest of the app never has to check
// for a configured assistant.
func New(ctx context.Context, apiKey, model string) (*Gateway, error) {
	if model == "" {
		model = defaultModel
	}
	if apiKey == "" {
		return &Gateway{model: model}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gateway{client: client, model: model}, nil
}

// Summarize asks for a one-shot broker analysis of a listing.
func (g *Gateway) Summarize(ctx context.Context, listing domain.Listing) string {
	if g.client == nil {
		return summaryFallback
	}
	body, err := json.Marshal(listing)
	if err != nil {
		return summaryFallback
	}
	prompt := fmt.Sprintf(`Analyze this website listing as a professional digital asset broker.
Listing: %s
Provide a professional summary including:
1. Investment potential
2. Main risks
3. Suggested improvements for the new owner to increase revenue.
Keep it concise and professional. Use markdown formatting.`, body)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil || resp.Text() == "" {
		return summaryFallback
	}
	return resp.Text()
}

// Converse answers one concierge turn. history is the caller-held
// transcript; listing, when non-nil, is supplied to the model as browsing
// context.
func (g *Gateway) Converse(ctx context.Context, history []domain.ChatMessage, message string, listing *domain.Listing) string {
	if g.client == nil {
		return chatFallback
	}

	listingContext := "General browsing"
	if listing != nil {
		if body, err := json.Marshal(listing); err == nil {
			listingContext = string(body)
		}
	}
	system := fmt.Sprintf(`You are the Investment Website Showroom Concierge. Your job is to help potential buyers find the right digital asset to purchase.
You are professional, data-driven, and helpful.
Current listing context (if any): %s.
If asked about price, refer to the listing data. If asked about growth, suggest potential strategies.`, listingContext)

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		if turn.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	})
	if err != nil || resp.Text() == "" {
		return chatFallback
	}
	return resp.Text()
}
