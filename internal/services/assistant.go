package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/harentsoaR/pregnancy-care-api/internal/utils"
	"go.uber.org/zap"
)

const geminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

// ErrEmptyAnswer is returned when the model produced no text.
var ErrEmptyAnswer = errors.New("assistant returned an empty response")

const systemPrompt = `You are a supportive assistant for a pregnancy wellness application. Follow these rules:
1. Answer questions about pregnancy, prenatal and postnatal care, nutrition, exercise and the app's features.
2. Keep answers short, warm and practical.
3. You are not a doctor. For symptoms, medication or anything urgent, tell the user to contact their midwife, doctor or emergency services.
4. Never invent facts, doses or statistics.
5. Reply in the language the user writes in.`

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GeminiAssistant answers free-text questions through the Gemini REST API.
type GeminiAssistant struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewGeminiAssistant(apiKey string) *GeminiAssistant {
	return &GeminiAssistant{
		apiKey:   apiKey,
		endpoint: geminiURL,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *GeminiAssistant) WithEndpoint(url string) *GeminiAssistant {
	a.endpoint = url
	return a
}

func (a *GeminiAssistant) Ask(ctx context.Context, question string) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: systemPrompt}}},
			{Role: "model", Parts: []geminiPart{{Text: "Understood. I will follow these rules."}}},
			{Role: "user", Parts: []geminiPart{{Text: question}}},
		},
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	// The key stays out of the URL, which transport errors quote verbatim.
	req.Header.Set("x-goog-api-key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		utils.Zlog.Warn("gemini error response", zap.Int("status", resp.StatusCode), zap.ByteString("body", respBody))
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyAnswer
	}
	answer := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}
