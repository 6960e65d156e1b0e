// Package identify sends a crop photo and a question to a multimodal
// chat-completion model and returns the model's answer.
package identify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/chew-z/crop-identifier/internal/config"
	"github.com/chew-z/crop-identifier/internal/models"
	"github.com/sashabaranov/go-openai"
)

var (
	ErrMissingImage      = errors.New("image is required")
	ErrMissingCredential = errors.New("API key is not configured")
	ErrUnknownModel      = errors.New("unknown model")
	ErrEmptyResponse     = errors.New("model returned no choices")
)

// Completer is the part of the chat-completion client the service needs
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Request is a single identification attempt
type Request struct {
	Image  []byte
	Prompt string
	Model  string // upstream model id
}

// Result is the first choice returned by the model
type Result struct {
	Model   string
	Content string
	Format  Format
}

// Service performs identification requests against one upstream
type Service struct {
	completer Completer
	apiKey    string
	catalog   *models.Catalog
}

// NewService creates a service talking to cfg.BaseURL with cfg.APIKey
func NewService(cfg *config.Config, catalog *models.Catalog) *Service {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 50,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: cfg.Timeout(),
	}
	return New(openai.NewClientWithConfig(clientConfig), cfg.APIKey, catalog)
}

// New creates a service around an existing completer
func New(completer Completer, apiKey string, catalog *models.Catalog) *Service {
	return &Service{
		completer: completer,
		apiKey:    apiKey,
		catalog:   catalog,
	}
}

// Enabled reports whether a credential is configured
func (s *Service) Enabled() bool {
	return s.apiKey != ""
}

// Catalog returns the models this service accepts
func (s *Service) Catalog() *models.Catalog {
	return s.catalog
}

// Identify checks preconditions, calls the model once and returns its answer.
// Nothing is sent upstream unless a credential and an image are present.
func (s *Service) Identify(ctx context.Context, req Request) (*Result, error) {
	if !s.Enabled() {
		return nil, ErrMissingCredential
	}
	if len(req.Image) == 0 {
		return nil, ErrMissingImage
	}
	if !s.catalog.IsValidModel(req.Model) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, req.Model)
	}

	prompt := req.Prompt
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}

	slog.Debug("Calling model", "model", req.Model, "image_bytes", len(req.Image), "prompt", prompt)

	resp, err := s.completer.CreateChatCompletion(ctx, BuildRequest(req.Image, prompt, req.Model))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get response from model API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	slog.Debug("Model responded", "model", req.Model, "chars", len(content), "total_tokens", resp.Usage.TotalTokens)

	return &Result{
		Model:   req.Model,
		Content: content,
		Format:  DetectFormat(content),
	}, nil
}
