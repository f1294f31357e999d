package service

import (
	"ai_authoring_backend/internal/config"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Assistant 外部 AI 服务，未配置时各页面回退到模拟结果
type Assistant interface {
	Enabled() bool
	Chat(ctx context.Context, prompt, background string) (string, error)
}

var errAIDisabled = errors.New("ai service is not configured")

type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{config: cfg, client: &http.Client{Timeout: 60 * time.Second}}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *AIService) Enabled() bool {
	return s != nil && s.config.Enabled()
}

// Chat background 非空时作为背景资料放入系统提示词
func (s *AIService) Chat(ctx context.Context, prompt, background string) (string, error) {
	if !s.Enabled() {
		return "", errAIDisabled
	}

	messages := []AIChatMessage{}
	if background != "" {
		messages = append(messages, AIChatMessage{
			Role:    "system",
			Content: fmt.Sprintf("You are a teaching assistant for curriculum authors. Answer using the following reference material:\n\n%s", background),
		})
	} else {
		messages = append(messages, AIChatMessage{
			Role:    "system",
			Content: "You are a teaching assistant for curriculum authors. Answer concisely.",
		})
	}
	messages = append(messages, AIChatMessage{Role: "user", Content: prompt})

	jsonData, err := json.Marshal(ChatCompletionRequest{Model: s.config.Model, Messages: messages})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", err
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("AI API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.New("no response from AI")
	}
	return chatResp.Choices[0].Message.Content, nil
}
