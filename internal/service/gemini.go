package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"supportbot/internal/domain"
)

var ErrMissingAPIKey = errors.New("gemini api key is empty")

// Request structures for the Gemini generateContent API
type GeminiRequestPart struct {
	Text string `json:"text"`
}

type GeminiRequestContent struct {
	Parts []GeminiRequestPart `json:"parts"`
	Role  string              `json:"role,omitempty"`
}

type GeminiRequest struct {
	Contents []GeminiRequestContent `json:"contents"`
}

type GeminiResponsePart struct {
	Text string `json:"text"`
}

type GeminiResponseContent struct {
	Parts []GeminiResponsePart `json:"parts"`
	Role  string               `json:"role"`
}

type GeminiCandidate struct {
	Content      GeminiResponseContent `json:"content"`
	FinishReason string                `json:"finishReason"`
	Index        int                   `json:"index"`
}

type GeminiAPIResponse struct {
	Candidates     []GeminiCandidate `json:"candidates"`
	PromptFeedback map[string]any    `json:"promptFeedback,omitempty"`
}

// GeminiModel is an entry of the models listing.
type GeminiModel struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

// SupportsGenerateContent reports whether the model can serve chat replies.
func (m GeminiModel) SupportsGenerateContent() bool {
	for _, method := range m.SupportedGenerationMethods {
		if method == "generateContent" {
			return true
		}
	}
	return false
}

type geminiModelsResponse struct {
	Models        []GeminiModel `json:"models"`
	NextPageToken string        `json:"nextPageToken"`
}

// GeminiClient talks to the Gemini REST API with a single model.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGeminiClient validates the key and base URL and returns a client bound to model.
func NewGeminiClient(apiKey, model, baseURL string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		return nil, errors.New("gemini model name is empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid gemini base url %q", baseURL)
	}

	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Model returns the model identifier requests are sent to.
func (c *GeminiClient) Model() string {
	return c.model
}

// GenerateContent sends turns to generateContent and returns the text of the
// first candidate, all parts concatenated.
func (c *GeminiClient) GenerateContent(ctx context.Context, turns []domain.Turn) (string, error) {
	requestPayload := GeminiRequest{Contents: make([]GeminiRequestContent, 0, len(turns))}
	for _, t := range turns {
		requestPayload.Contents = append(requestPayload.Contents, GeminiRequestContent{
			Parts: []GeminiRequestPart{{Text: t.Text}},
			Role:  geminiRole(t.Role),
		})
	}

	payloadBytes, err := json.Marshal(requestPayload)
	if err != nil {
		return "", fmt.Errorf("marshaling gemini payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("creating gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}

	var geminiAPIResp GeminiAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiAPIResp); err != nil {
		return "", fmt.Errorf("decoding gemini response: %w", err)
	}

	if len(geminiAPIResp.Candidates) == 0 || len(geminiAPIResp.Candidates[0].Content.Parts) == 0 {
		if reason, ok := geminiAPIResp.PromptFeedback["blockReason"]; ok {
			return "", fmt.Errorf("gemini blocked the prompt: %v", reason)
		}
		return "", errors.New("gemini response has no candidates or parts")
	}

	var text strings.Builder
	for _, p := range geminiAPIResp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String(), nil
}

// ListModels returns every model visible to the API key, following pagination.
func (c *GeminiClient) ListModels(ctx context.Context) ([]GeminiModel, error) {
	var models []GeminiModel
	pageToken := ""

	for {
		q := url.Values{}
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}
		apiURL := c.baseURL + "/models"
		if len(q) > 0 {
			apiURL += "?" + q.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating list models request: %w", err)
		}
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("listing gemini models: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			err := statusError(resp)
			resp.Body.Close()
			return nil, err
		}

		var page geminiModelsResponse
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding list models response: %w", err)
		}

		models = append(models, page.Models...)
		if page.NextPageToken == "" {
			return models, nil
		}
		pageToken = page.NextPageToken
	}
}

func geminiRole(role domain.TurnRole) string {
	switch role {
	case domain.RoleAssistant, domain.RoleAssistantAck:
		return "model"
	default:
		return "user"
	}
}

func statusError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)

	var errorBody struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(bodyBytes, &errorBody) == nil && errorBody.Error.Message != "" {
		return fmt.Errorf("gemini returned status %s: %s", resp.Status, errorBody.Error.Message)
	}
	return fmt.Errorf("gemini returned status %s: %s", resp.Status, strings.TrimSpace(string(bodyBytes)))
}
