package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-trendboard-be/pkg/llm"
)

const (
	chatCompletionsURL = "https://api.openai.com/v1/chat/completions"
	imagesURL          = "https://api.openai.com/v1/images/generations"

	defaultChatModel  = "gpt-4o-mini"
	defaultImageModel = "dall-e-3"
)

type OpenAIProvider struct {
	ChatModel  string
	ImageModel string
	Client     *http.Client
}

// Ensure OpenAIProvider implements Provider
var _ llm.Provider = &OpenAIProvider{}

// NewOpenAIProvider builds the client. The API key is not held here: it
// is entered per session and passed via llm.WithAPIKey on every call.
func NewOpenAIProvider(chatModel, imageModel string) *OpenAIProvider {
	if chatModel == "" {
		chatModel = defaultChatModel
	}
	if imageModel == "" {
		imageModel = defaultImageModel
	}
	return &OpenAIProvider{
		ChatModel:  chatModel,
		ImageModel: imageModel,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type openaiChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

// openaiMessage content is either a plain string or a list of parts
// when an image rides along.
type openaiMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type openaiContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openaiImageURL `json:"image_url,omitempty"`
}

type openaiImageURL struct {
	URL string `json:"url"`
}

type openaiChatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type openaiImageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size,omitempty"`
}

type openaiImageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// --- Interface Implementation ---

func (o *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.APIKey == "" {
		return "", fmt.Errorf("openai: missing api key")
	}

	messages := make([]openaiMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = llm.RoleAssistant
		}
		messages[i] = openaiMessage{
			Role:    role,
			Content: encodeContent(msg),
		}
	}

	model := o.ChatModel
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := openaiChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: options.Temperature,
	}
	if options.MaxTokens > 0 {
		reqPayload.MaxTokens = options.MaxTokens
	}

	body, err := o.post(ctx, chatCompletionsURL, options.APIKey, reqPayload)
	if err != nil {
		return "", err
	}

	var chatResp openaiChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai: response has no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (o *OpenAIProvider) GenerateImage(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}
	if options.APIKey == "" {
		return "", fmt.Errorf("openai: missing api key")
	}

	model := o.ImageModel
	if options.Model != "" {
		model = options.Model
	}

	body, err := o.post(ctx, imagesURL, options.APIKey, openaiImageRequest{
		Model:  model,
		Prompt: prompt,
		N:      1,
	})
	if err != nil {
		return "", err
	}

	var imgResp openaiImageResponse
	if err := json.Unmarshal(body, &imgResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(imgResp.Data) == 0 {
		return "", fmt.Errorf("openai: response has no image data")
	}

	return imgResp.Data[0].URL, nil
}

// encodeContent maps a generic message to the wire content: a bare
// string normally, a part list when an image is attached.
func encodeContent(msg llm.Message) interface{} {
	if msg.ImageURL == "" && msg.ImageB64 == "" {
		return msg.Content
	}

	parts := []openaiContentPart{
		{Type: "text", Text: msg.Content},
	}
	if msg.ImageURL != "" {
		parts = append(parts, openaiContentPart{
			Type:     "image_url",
			ImageURL: &openaiImageURL{URL: msg.ImageURL},
		})
	} else {
		parts = append(parts, openaiContentPart{
			Type:     "image_url",
			ImageURL: &openaiImageURL{URL: "data:image/png;base64," + msg.ImageB64},
		})
	}
	return parts
}

func (o *OpenAIProvider) post(ctx context.Context, url, apiKey string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}
	return bodyBytes, nil
}
