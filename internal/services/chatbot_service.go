package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bloodbridge/bloodbridge-backend/internal/config"
	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/metrics"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/bloodbridge/bloodbridge-backend/internal/textproc"
	"github.com/google/uuid"
)

const (
	maxChatMessageLen = 1000
	chatHistoryLimit  = 50
	chatContextTurns  = 10
)

const (
	offTopicReply = "I can only help with health and blood donation questions. " +
		"Try asking about donor eligibility, preparing for a donation or recovering afterwards."
	fallbackReply = "I could not reach the assistant right now. For urgent health concerns " +
		"please contact a doctor or your nearest blood bank. You can try your question again in a few minutes."
)

const chatSystemPrompt = `You are the BloodBridge health assistant.

Rules:
1. Only answer questions about general health and blood donation
2. Be accurate, short and friendly; use markdown lists where they help
3. Never diagnose; recommend a doctor for anything serious or urgent
4. Eligibility for donating is ages 18 to 65 and depends on local blood bank rules
5. Never ask for or repeat personal contact information`

var topicKeywords = []string{
	"blood", "donat", "donor", "plasma", "platelet", "hemoglobin", "haemoglobin",
	"iron", "anemi", "anaemi", "transfusion", "health", "doctor", "medic", "symptom",
	"vaccin", "pressure", "diabet", "sugar", "fever", "pain", "diet", "nutrition",
	"sleep", "exercise", "weight", "pregnan", "tattoo", "infection", "hiv", "hepatitis",
	"malaria", "surgery", "pill", "allerg", "heart", "vitamin", "hydrat", "water",
	"food", "dizz", "faint", "covid", "flu", "sick",
}

// ChatProvider is an OpenAI-compatible chat-completions endpoint.
type ChatProvider struct {
	Name   string
	URL    string
	APIKey string
	Model  string
}

// ChatbotService is a rule-gated proxy in front of the language models.
type ChatbotService struct {
	store      store.Store
	moderation *ModerationService
	text       *textproc.Processor
	providers  []ChatProvider
	client     *http.Client
	dailyLimit int
	now        func() time.Time
}

func NewChatbotService(st store.Store, moderation *ModerationService, text *textproc.Processor, cfg *config.Config) *ChatbotService {
	timeout := cfg.AITimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &ChatbotService{
		store:      st,
		moderation: moderation,
		text:       text,
		providers: []ChatProvider{
			{Name: "glm", URL: cfg.GLMAPIURL, APIKey: cfg.GLMAPIKey, Model: cfg.GLMModel},
			{Name: "deepseek", URL: cfg.DeepSeekAPIURL, APIKey: cfg.DeepSeekAPIKey, Model: cfg.DeepSeekModel},
		},
		client:     &http.Client{Timeout: timeout},
		dailyLimit: cfg.ChatbotDailyLimit,
		now:        time.Now,
	}
}

func (s *ChatbotService) History(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
	msgs, err := s.store.Chats().ListByUser(ctx, userID, chatHistoryLimit)
	return nonNil(msgs), err
}

func (s *ChatbotService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.store.Chats().DeleteByUser(ctx, userID)
}

// Ask runs the gate (length, content filter, daily quota, topic) and only
// then calls a model. Off-topic questions get a canned reply. The question is
// stored before the model is called and counts toward the quota even when
// saving the reply fails.
func (s *ChatbotService) Ask(ctx context.Context, userID uuid.UUID, message string) (*dto.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(message) > maxChatMessageLen {
		return nil, ErrMessageTooLong
	}
	if err := s.moderation.Check(message); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	question := &models.ChatMessage{
		UserID:    userID,
		Sender:    models.ChatSenderUser,
		Content:   s.text.Clean(message),
		CreatedAt: now,
	}
	gated := !onTopic(message)

	// The quota check and the stored question share one transaction under the
	// account row lock, so concurrent asks of one account cannot overrun it.
	var history []models.ChatMessage
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := tx.Accounts().GetForUpdate(ctx, userID); err != nil {
			return accountErr(err)
		}
		used, err := tx.Chats().CountUserMessagesSince(ctx, userID, dayStart)
		if err != nil {
			return fmt.Errorf("failed to check usage: %w", err)
		}
		if used >= int64(s.dailyLimit) {
			return ErrChatQuotaExceeded
		}
		if !gated {
			if history, err = tx.Chats().ListByUser(ctx, userID, chatContextTurns); err != nil {
				return err
			}
		}
		return tx.Chats().Create(ctx, question)
	})
	if err != nil {
		return nil, err
	}

	var answer, source string
	if gated {
		answer, source = offTopicReply, "gated"
	} else {
		answer, source, err = s.callLLM(ctx, history, message)
		if err != nil {
			slog.Warn("LLM generation failed, using fallback", "user_id", userID.String(), "error", err)
			answer, source = fallbackReply, "fallback"
		}
	}

	html, err := s.text.RenderMarkdown(answer)
	if err != nil {
		html = ""
	}
	reply := &models.ChatMessage{
		UserID:      userID,
		Sender:      models.ChatSenderAssistant,
		Content:     answer,
		ContentHTML: html,
		Gated:       gated,
		CreatedAt:   now.Add(time.Millisecond),
	}

	if err := s.store.Chats().Create(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to save chat: %w", err)
	}

	metrics.ChatbotReplies.WithLabelValues(source).Inc()
	return &dto.ChatReply{Question: question, Answer: reply, Gated: gated}, nil
}

func onTopic(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range topicKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// --- LLM integration ---

type llmRequest struct {
	Model       string       `json:"model"`
	Messages    []llmMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens"`
}

type llmMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type llmResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// callLLM tries each configured provider in order and returns the first answer.
func (s *ChatbotService) callLLM(ctx context.Context, history []models.ChatMessage, message string) (string, string, error) {
	messages := make([]llmMessage, 0, len(history)+2)
	messages = append(messages, llmMessage{Role: "system", Content: chatSystemPrompt})
	for _, m := range history {
		if m.Gated {
			continue
		}
		messages = append(messages, llmMessage{Role: m.Sender, Content: m.Content})
	}
	messages = append(messages, llmMessage{Role: "user", Content: message})

	err := fmt.Errorf("no LLM provider configured")
	for _, p := range s.providers {
		if p.APIKey == "" {
			continue
		}
		var answer string
		answer, err = s.callProvider(ctx, p, messages)
		if err == nil {
			return answer, p.Name, nil
		}
		slog.Warn("LLM provider failed", "provider", p.Name, "error", err)
	}
	return "", "", fmt.Errorf("all LLM providers failed: %w", err)
}

func (s *ChatbotService) callProvider(ctx context.Context, p ChatProvider, messages []llmMessage) (string, error) {
	reqBody, err := json.Marshal(llmRequest{
		Model:       p.Model,
		Messages:    messages,
		Temperature: 0.4,
		MaxTokens:   800,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

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
		return "", fmt.Errorf("API returned %d: %s", resp.StatusCode, string(body))
	}

	var llmResp llmResponse
	if err := json.Unmarshal(body, &llmResp); err != nil {
		return "", err
	}
	if len(llmResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API")
	}

	content := strings.TrimSpace(llmResp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```markdown")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("empty answer from API")
	}
	return content, nil
}
