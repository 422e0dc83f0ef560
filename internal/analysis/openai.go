package analysis

import (
	"context"
	"fmt"

	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIAnalyzer analyzes food and sport descriptions via the OpenAI API.
type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
}

// NewOpenAIAnalyzer creates an OpenAI-backed analyzer.
func NewOpenAIAnalyzer(apiKey, model string) *OpenAIAnalyzer {
	return &OpenAIAnalyzer{client: openai.NewClient(apiKey), model: model}
}

func (a *OpenAIAnalyzer) chat(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return resp.Choices[0].Message.Content, nil
}

func (a *OpenAIAnalyzer) AnalyzeFoodImage(ctx context.Context, image string, weightG float64) (*domain.FoodAnalysis, error) {
	// OpenAI accepts data URLs directly as image URLs.
	raw, err := a.chat(ctx, []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeText,
					Text: foodImagePrompt(weightG),
				},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL: image,
					},
				},
			},
		},
	})
	if err != nil {
		return nil, apperrors.NewAnalysisError(err, domain.ProviderOpenAI)
	}
	return decodeFood(raw, domain.ProviderOpenAI)
}

func (a *OpenAIAnalyzer) AnalyzeFoodText(ctx context.Context, text string) (*domain.FoodAnalysis, error) {
	raw, err := a.chat(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: foodTextPrompt(text)},
	})
	if err != nil {
		return nil, apperrors.NewAnalysisError(err, domain.ProviderOpenAI)
	}
	return decodeFood(raw, domain.ProviderOpenAI)
}

func (a *OpenAIAnalyzer) AnalyzeSportText(ctx context.Context, text string, userWeightKg float64) (*domain.SportAnalysis, error) {
	raw, err := a.chat(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: sportTextPrompt(text, userWeightKg)},
	})
	if err != nil {
		return nil, apperrors.NewAnalysisError(err, domain.ProviderOpenAI)
	}
	return decodeSport(raw, domain.ProviderOpenAI)
}
