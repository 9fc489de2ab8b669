package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bhanuprakash1708/GitHub-HireScore/model"
	log "github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Client calls the Gemini generateContent endpoint with an ordered list of
// model identifiers. Only a "model not found" reply advances to the next
// identifier, any other failure stops the chain immediately.
type Client struct {
	apiKey     string
	models     []string
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the given credential and model chain
// a nil httpClient falls back to http.DefaultClient
func NewClient(apiKey string, models []string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		apiKey:     apiKey,
		models:     models,
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
	}
}

// newClientWithBaseURL creates a client pointing at a custom endpoint for testing
func newClientWithBaseURL(apiKey string, models []string, httpClient *http.Client, baseURL string) *Client {
	client := NewClient(apiKey, models, httpClient)
	client.baseURL = baseURL
	return client
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

// generateResponse covers every answer shape the API is known to produce:
// a top level text, a nested response text, or candidate content parts
type generateResponse struct {
	Text       string      `json:"text"`
	Response   *textHolder `json:"response"`
	Candidates []candidate `json:"candidates"`
}

type textHolder struct {
	Text string `json:"text"`
}

type candidate struct {
	Content candidateContent `json:"content"`
}

type candidateContent struct {
	Parts []part `json:"parts"`
}

type apiErrorResponse struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// statusError is a non-2xx reply from the API
type statusError struct {
	StatusCode int
	Status     string // error.status field when the body was parseable, e.g. NOT_FOUND
	Message    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("gemini api returned status %d: %s", e.StatusCode, e.Message)
}

// Generate renders the prompt against the first usable model of the chain
// and returns the raw text payload of the reply
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for _, modelID := range c.models {
		text, err := c.generateWithModel(ctx, modelID, prompt)

		if err == nil {
			return text, nil
		}

		if !isModelNotFound(err) {
			return "", err
		}

		log.WithFields(log.Fields{
			"model": modelID,
		}).Warning("model not available, will try the next model of the chain")

		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("no gemini model configured")
	}

	return "", lastErr
}

func (c *Client) generateWithModel(ctx context.Context, modelID string, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)

	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, modelID, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))

	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)

	if err != nil {
		return "", fmt.Errorf("calling gemini api: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)

	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", newStatusError(resp.StatusCode, respBody)
	}

	var genResp generateResponse

	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("parsing gemini response: %w", err)
	}

	text, ok := extractText(genResp)

	if !ok {
		return "", model.ErrEmptyModelResponse
	}

	return text, nil
}

// extractText returns the first populated payload of the response
func extractText(resp generateResponse) (string, bool) {
	if resp.Text != "" {
		return resp.Text, true
	}

	if resp.Response != nil && resp.Response.Text != "" {
		return resp.Response.Text, true
	}

	if len(resp.Candidates) > 0 {
		var builder strings.Builder

		for _, p := range resp.Candidates[0].Content.Parts {
			builder.WriteString(p.Text)
		}

		if builder.Len() > 0 {
			return builder.String(), true
		}
	}

	return "", false
}

func newStatusError(code int, body []byte) *statusError {
	statusErr := statusError{
		StatusCode: code,
		Message:    strings.TrimSpace(string(body)),
	}

	var apiResp apiErrorResponse

	if err := json.Unmarshal(body, &apiResp); err == nil && apiResp.Error.Message != "" {
		statusErr.Status = apiResp.Error.Status
		statusErr.Message = apiResp.Error.Message
	}

	return &statusErr
}

// isModelNotFound reports whether the failure means the model identifier
// itself is unknown, the only condition that moves the chain forward
func isModelNotFound(err error) bool {
	var statusErr *statusError

	if !errors.As(err, &statusErr) {
		return false
	}

	if statusErr.StatusCode == http.StatusNotFound {
		return true
	}

	return statusErr.Status == "NOT_FOUND" || strings.Contains(statusErr.Message, "is not found")
}
