package ai

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"google.golang.org/genai"
)

const pricePrompt = `You price used books for a peer-to-peer marketplace.
Given the title, author, and seller description, estimate a fair asking
price for one used copy in ordinary condition.
Answer with exactly one number wrapped in dollar-sign envelopes, e.g. $450$.
No explanations, units, line breaks, or extra characters.
The number must be between 1 and 100000. If you cannot estimate, answer $0$.`

type PriceSuggestClient struct {
	model string
}

func NewPriceSuggestClient() *PriceSuggestClient {
	model := os.Getenv("GEMINI_PRICE_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &PriceSuggestClient{model: model}
}

// Suggest calls Gemini with the book details and parses the single-number
// reply into a price in major currency units.
func (c *PriceSuggestClient) Suggest(ctx context.Context, title, author, description string) (int64, error) {
	start := time.Now()
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		log.Printf("[price] stage=client_init err=%v", err)
		return 0, err
	}

	parts := []*genai.Part{
		genai.NewPartFromText(pricePrompt),
		genai.NewPartFromText(fmt.Sprintf("Title: %s\nAuthor: %s\nDescription: %s", title, author, description)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	temp := float32(0)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	res, err := client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		log.Printf("[price] stage=gemini_fail model=%s err=%v", c.model, err)
		return 0, fmt.Errorf("gemini generate: %w", err)
	}
	rawText := res.Text()
	price, err := ParsePrice(rawText)
	if err != nil {
		log.Printf("[price] stage=parse_fail len=%d err=%v", len(rawText), err)
		return 0, err
	}
	log.Printf("[price] stage=done model=%s price=%d totalMs=%d", c.model, price, time.Since(start).Milliseconds())
	return price, nil
}
