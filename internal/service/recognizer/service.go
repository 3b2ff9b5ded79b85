package recognizer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// Config controls the LLM intent classifier.
type Config struct {
	Enabled       bool
	MinConfidence float32
}

// Service classifies free-text utterances into one of the bot's trigger
// labels using a chat model. When the model is unavailable or unsure the
// service reports no opinion and the router falls back to its keyword table.
type Service struct {
	enabled       bool
	classifier    compose.Runnable[map[string]any, *schema.Message]
	minConfidence float32
}

// NewService compiles the classifier chain. chatModel may be nil, in which
// case the service stays disabled.
func NewService(ctx context.Context, chatModel model.ChatModel, cfg Config) (*Service, error) {
	minConfidence := cfg.MinConfidence
	if minConfidence <= 0 {
		minConfidence = 0.5
	}

	svc := &Service{
		enabled:       cfg.Enabled && chatModel != nil,
		minConfidence: minConfidence,
	}
	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(intentSystemPrompt),
		schema.UserMessage(intentUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile intent classifier chain: %w", err)
	}

	svc.classifier = runnable
	return svc, nil
}

// Enabled reports whether the classifier is wired to a model.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.classifier != nil
}

// Recognize returns the best-matched intent label for the utterance, or
// false when the classifier is disabled, fails, or is not confident enough.
func (s *Service) Recognize(ctx context.Context, utterance string, labels []string) (string, bool) {
	if !s.Enabled() || len(labels) == 0 {
		return "", false
	}

	input := map[string]any{
		"labels":    strings.Join(labels, ", "),
		"utterance": strings.TrimSpace(utterance),
	}

	msg, err := s.classifier.Invoke(ctx, input)
	if err != nil {
		log.Printf("[intent] classifier invoke failed: %v", err)
		return "", false
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", false
	}

	result, err := parseClassifierOutput(msg.Content)
	if err != nil {
		log.Printf("[intent] classifier output parse failed: %v", err)
		return "", false
	}

	if result.Confidence < s.minConfidence {
		return "", false
	}

	label := strings.ToLower(strings.TrimSpace(result.Intent))
	for _, known := range labels {
		if label == known {
			return known, true
		}
	}
	return "", false
}

// parseClassifierOutput tolerates prose around the JSON object the model
// was asked to emit.
func parseClassifierOutput(content string) (*classifierPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &classifierPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}
	return payload, nil
}

type classifierPayload struct {
	Intent     string  `json:"intent"`
	Confidence float32 `json:"confidence"`
}

const intentSystemPrompt = "You route messages sent to an event-discovery assistant. " +
	"Given a user utterance and the list of known intent labels, pick the single label " +
	"that best matches what the user wants, or \"none\" when nothing fits. " +
	"Reply with one JSON object only: {\"intent\": \"<label or none>\", \"confidence\": <0..1>}. " +
	"No extra text."

const intentUserPrompt = "Known intents: {labels}\n\nUser message: {utterance}\n\nReply with the JSON object."
