package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiAnalyzer analyzes food and sport descriptions via the Gemini API.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer creates a Gemini-backed analyzer.
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiAnalyzer{client: client, model: model}, nil
}

// Close releases the underlying client.
func (a *GeminiAnalyzer) Close() error {
	return a.client.Close()
}

// imageBytes resolves the image input to raw bytes and a MIME type. Clients
// send either a base64 data URL or a fetchable URL.
func imageBytes(ctx context.Context, image string) ([]byte, string, error) {
	if strings.HasPrefix(image, "data:") {
		meta, payload, found := strings.Cut(image, ",")
		if !found {
			return nil, "", fmt.Errorf("malformed data URL")
		}
		mime := "image/jpeg"
		if m, _, ok := strings.Cut(strings.TrimPrefix(meta, "data:"), ";"); ok && m != "" {
			mime = m
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode image data: %w", err)
		}
		return data, mime, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, image, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build image request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	return data, "image/jpeg", nil
}

func (a *GeminiAnalyzer) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	model := a.client.GenerativeModel(a.model)
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type")
	}
	return string(text), nil
}

func (a *GeminiAnalyzer) AnalyzeFoodImage(ctx context.Context, image string, weightG float64) (*domain.FoodAnalysis, error) {
	data, mime, err := imageBytes(ctx, image)
	if err != nil {
		return nil, apperrors.NewAnalysisError(err, domain.ProviderGemini)
	}
	format := strings.TrimPrefix(mime, "image/")
	raw, err := a.generate(ctx, genai.ImageData(format, data), genai.Text(foodImagePrompt(weightG)))
	if err != nil {
		return nil, apperrors.NewAnalysisError(err, domain.ProviderGemini)
	}
	return decodeFood(raw, domain.ProviderGemini)
}

func (a *GeminiAnalyzer) AnalyzeFoodText(ctx context.Context, text string) (*domain.FoodAnalysis, error) {
	raw, err := a.generate(ctx, genai.Text(foodTextPrompt(text)))
	if err != nil {
		return nil, apperrors.NewAnalysisError(err, domain.ProviderGemini)
	}
	return decodeFood(raw, domain.ProviderGemini)
}

func (a *GeminiAnalyzer) AnalyzeSportText(ctx context.Context, text string, userWeightKg float64) (*domain.SportAnalysis, error) {
	raw, err := a.generate(ctx, genai.Text(sportTextPrompt(text, userWeightKg)))
	if err != nil {
		return nil, apperrors.NewAnalysisError(err, domain.ProviderGemini)
	}
	return decodeSport(raw, domain.ProviderGemini)
}
