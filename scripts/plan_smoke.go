package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"google.golang.org/genai"
)

var model = flag.String("model", "gemini-2.0-flash", "the model name, e.g. gemini-2.0-flash")

// Manual smoke check for the plan generation prompt. Run with a real
// GOOGLE_GEMINI_API_KEY to see what the model returns for a fixed snapshot
// before wiring prompt changes into the planner.
func main() {
	flag.Parse()
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Println("GOOGLE_GEMINI_API_KEY environment variable is not set")
		return
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		fmt.Println("Failed to create client:", err)
		return
	}

	prompt := `You are an activity planning assistant.
Current weather for Lisbon: 24.5C (feels like 25.1C), Mainly clear, humidity 58%, wind 5.0 m/s gusting 10.0 m/s.
Respond with STRICT JSON only: {"summary": {"conditions": string, "precip_chance": string}, "morning": [{"name": string, "description": string, "location": string}], "afternoon": [...], "indoor": [...]}`

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.5),
		ResponseMIMEType: "application/json",
	}

	resp, err := client.Models.GenerateContent(ctx, *model, genai.Text(prompt), config)
	if err != nil {
		fmt.Println("GenerateContent failed:", err)
		return
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			fmt.Println(part.Text)
		}
	}
}
