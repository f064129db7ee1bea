package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jviitor13/rodocheck/internal/config"
	"github.com/jviitor13/rodocheck/internal/models"
	"github.com/jviitor13/rodocheck/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

// ErrNoAIServiceConfigured is returned when neither provider has an API key.
var ErrNoAIServiceConfigured = errors.New("No AI service configured")

const (
	textTimeout   = 30 * time.Second
	visionTimeout = 60 * time.Second
)

// TokenUsage holds the token counts of one provider call. Providers that do
// not report usage approximate it by word count.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

type providerReply struct {
	Text  string
	Usage TokenUsage
}

// aiProvider is one configured external AI backend. The gateway picks the
// first configured provider in a fixed order: openai, then google_ai.
type aiProvider interface {
	Name() string
	Model() string
	VisionModel() string
	GenerateText(ctx context.Context, prompt string) (*providerReply, error)
	GenerateFromImage(ctx context.Context, imageBase64, prompt string) (*providerReply, error)
}

// GenerateResult is the outcome of one gateway call. Expected failures are
// reported through Success=false rather than an error.
type GenerateResult struct {
	Success        bool            `json:"success"`
	Text           string          `json:"response,omitempty"`
	Error          string          `json:"error,omitempty"`
	InputTokens    int             `json:"input_tokens"`
	OutputTokens   int             `json:"output_tokens"`
	Cost           decimal.Decimal `json:"cost"`
	ProcessingTime float64         `json:"processing_time"`
	ServiceName    string          `json:"service_name"`
	ModelName      string          `json:"model_name"`
}

// AIGateway issues single-attempt calls to the selected provider and writes
// exactly one AIUsageLog row per attempt before returning.
type AIGateway struct {
	db        *gorm.DB
	providers []aiProvider
	rateIn    decimal.Decimal
	rateOut   decimal.Decimal
}

func NewAIGateway(db *gorm.DB, cfg *config.AIConfig) *AIGateway {
	var providers []aiProvider
	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, newOpenAIProvider(cfg))
	}
	if cfg.GoogleAIAPIKey != "" {
		providers = append(providers, &googleProvider{apiKey: cfg.GoogleAIAPIKey, model: cfg.GoogleAIModel})
	}

	return &AIGateway{
		db:        db,
		providers: providers,
		rateIn:    decimal.NewFromFloat(cfg.InputTokenRate),
		rateOut:   decimal.NewFromFloat(cfg.OutputTokenRate),
	}
}

// ActiveProvider returns the provider that would serve the next call.
func (g *AIGateway) ActiveProvider() (aiProvider, error) {
	if len(g.providers) == 0 {
		return nil, ErrNoAIServiceConfigured
	}
	return g.providers[0], nil
}

// GenerateText sends a text prompt to the active provider. It returns
// ErrNoAIServiceConfigured without writing a usage row when no provider is
// configured; every other outcome produces a result plus one usage row.
func (g *AIGateway) GenerateText(ctx context.Context, prompt string, userID uint) (*GenerateResult, error) {
	p, err := g.ActiveProvider()
	if err != nil {
		return nil, err
	}
	return g.call(ctx, p, p.Model(), userID, textTimeout, func(ctx context.Context) (*providerReply, error) {
		return p.GenerateText(ctx, prompt)
	}), nil
}

// GenerateFromImage sends a prompt plus an inline base64 image to the active
// provider's vision endpoint.
func (g *AIGateway) GenerateFromImage(ctx context.Context, imageBase64, prompt string, userID uint) (*GenerateResult, error) {
	p, err := g.ActiveProvider()
	if err != nil {
		return nil, err
	}
	return g.call(ctx, p, p.VisionModel(), userID, visionTimeout, func(ctx context.Context) (*providerReply, error) {
		return p.GenerateFromImage(ctx, imageBase64, prompt)
	}), nil
}

func (g *AIGateway) call(ctx context.Context, p aiProvider, model string, userID uint, timeout time.Duration, fn func(context.Context) (*providerReply, error)) *GenerateResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	reply, err := fn(ctx)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		errMsg := fmt.Sprintf("%s service error: %v", p.Name(), err)
		logger.Warn().Str("provider", p.Name()).Err(err).Msg("AI call failed")
		g.record(userID, p.Name(), model, TokenUsage{}, decimal.Zero, elapsed, false, errMsg)
		return &GenerateResult{
			Success:        false,
			Error:          errMsg,
			ProcessingTime: elapsed,
			ServiceName:    p.Name(),
			ModelName:      model,
		}
	}

	cost := g.computeCost(reply.Usage)
	g.record(userID, p.Name(), model, reply.Usage, cost, elapsed, true, "")

	return &GenerateResult{
		Success:        true,
		Text:           reply.Text,
		InputTokens:    reply.Usage.InputTokens,
		OutputTokens:   reply.Usage.OutputTokens,
		Cost:           cost,
		ProcessingTime: elapsed,
		ServiceName:    p.Name(),
		ModelName:      model,
	}
}

// computeCost applies the linear tariff: in*rateIn + out*rateOut.
func (g *AIGateway) computeCost(usage TokenUsage) decimal.Decimal {
	in := decimal.NewFromInt(int64(usage.InputTokens)).Mul(g.rateIn)
	out := decimal.NewFromInt(int64(usage.OutputTokens)).Mul(g.rateOut)
	return in.Add(out)
}

func (g *AIGateway) record(userID uint, service, model string, usage TokenUsage, cost decimal.Decimal, elapsed float64, success bool, errMsg string) {
	entry := models.AIUsageLog{
		UserID:         userID,
		ServiceName:    service,
		ModelName:      model,
		InputTokens:    usage.InputTokens,
		OutputTokens:   usage.OutputTokens,
		Cost:           cost,
		ProcessingTime: elapsed,
		Success:        success,
		ErrorMessage:   errMsg,
	}
	if err := g.db.Create(&entry).Error; err != nil {
		logger.Errorf("[AI] failed to record usage: %v", err)
	}
}

// --- OpenAI provider ---

type openaiProvider struct {
	client      *openai.Client
	model       string
	visionModel string
}

func newOpenAIProvider(cfg *config.AIConfig) *openaiProvider {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	return &openaiProvider{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.OpenAIModel,
		visionModel: cfg.OpenAIVisionModel,
	}
}

func (p *openaiProvider) Name() string        { return "openai" }
func (p *openaiProvider) Model() string       { return p.model }
func (p *openaiProvider) VisionModel() string { return p.visionModel }

func (p *openaiProvider) GenerateText(ctx context.Context, prompt string) (*providerReply, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	return &providerReply{
		Text: resp.Choices[0].Message.Content,
		Usage: TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

func (p *openaiProvider) GenerateFromImage(ctx context.Context, imageBase64, prompt string) (*providerReply, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.visionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: "data:image/jpeg;base64," + imageBase64,
						},
					},
				},
			},
		},
		MaxTokens:   1000,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI Vision API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI Vision")
	}

	return &providerReply{
		Text: resp.Choices[0].Message.Content,
		Usage: TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

// --- Google AI provider ---

// googleProvider calls the Generative Language API. It reports no token
// usage, so counts are approximated by word count.
type googleProvider struct {
	apiKey string
	model  string
}

func (p *googleProvider) Name() string        { return "google_ai" }
func (p *googleProvider) Model() string       { return p.model }
func (p *googleProvider) VisionModel() string { return p.model }

func (p *googleProvider) GenerateText(ctx context.Context, prompt string) (*providerReply, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: p.apiKey})
	if err != nil {
		return nil, fmt.Errorf("Google AI client error: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("Google AI API error: %w", err)
	}

	text := resp.Text()
	return &providerReply{
		Text:  text,
		Usage: approximateUsage(prompt, text),
	}, nil
}

func (p *googleProvider) GenerateFromImage(ctx context.Context, imageBase64, prompt string) (*providerReply, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: p.apiKey})
	if err != nil {
		return nil, fmt.Errorf("Google AI client error: %w", err)
	}

	imageBytes, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(imageBytes, "image/jpeg"),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("Google AI Vision API error: %w", err)
	}

	text := resp.Text()
	return &providerReply{
		Text:  text,
		Usage: approximateUsage(prompt, text),
	}, nil
}

func approximateUsage(prompt, reply string) TokenUsage {
	return TokenUsage{
		InputTokens:  len(strings.Fields(prompt)),
		OutputTokens: len(strings.Fields(reply)),
	}
}
