package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"carechat-be/internal/pkg/logger"
	"carechat-be/internal/tracer"
)

// Classifier produces an intent decision for a user message. Implementations
// must never fail: a classification problem degrades to the fallback decision.
type Classifier interface {
	Classify(ctx context.Context, conversationId, query, language string) *Decision
}

// LanguageClassifier calls a conversational language understanding service
// and normalizes its prediction into a Decision. Every decision, fallback
// included, is published to the conversation's intent history.
type LanguageClassifier struct {
	endpoint        string
	key             string
	projectName     string
	modelDeployment string
	apiVersion      string

	client  *http.Client
	history HistoryStore
	genAI   *tracer.GenAITracer
	log     logger.ILogger
}

func NewLanguageClassifier(
	endpoint, key, projectName, modelDeployment, apiVersion string,
	history HistoryStore,
	genAI *tracer.GenAITracer,
	log logger.ILogger,
) *LanguageClassifier {
	return &LanguageClassifier{
		endpoint:        endpoint,
		key:             key,
		projectName:     projectName,
		modelDeployment: modelDeployment,
		apiVersion:      apiVersion,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		history: history,
		genAI:   genAI,
		log:     log,
	}
}

// --- Wire structures for the language service ---

type analyzeRequest struct {
	Kind          string               `json:"kind"`
	AnalysisInput analyzeInput         `json:"analysisInput"`
	Parameters    analyzeRequestParams `json:"parameters"`
}

type analyzeInput struct {
	ConversationItem conversationItem `json:"conversationItem"`
}

type conversationItem struct {
	Id            string `json:"id"`
	Text          string `json:"text"`
	Modality      string `json:"modality"`
	Language      string `json:"language"`
	ParticipantId string `json:"participantId"`
}

type analyzeRequestParams struct {
	ProjectName     string `json:"projectName"`
	Verbose         bool   `json:"verbose"`
	DeploymentName  string `json:"deploymentName"`
	StringIndexType string `json:"stringIndexType"`
}

type analyzeResponse struct {
	Result struct {
		Prediction struct {
			TopIntent string `json:"topIntent"`
			Intents   []struct {
				Category        string  `json:"category"`
				ConfidenceScore float64 `json:"confidenceScore"`
			} `json:"intents"`
			Entities []struct {
				Category        string  `json:"category"`
				Text            string  `json:"text"`
				ConfidenceScore float64 `json:"confidenceScore"`
			} `json:"entities"`
		} `json:"prediction"`
	} `json:"result"`
}

// Classify analyzes the query, falling back to the fixed decision on any
// transport or parse failure. The returned decision is never nil.
func (c *LanguageClassifier) Classify(ctx context.Context, conversationId, query, language string) *Decision {
	spanCtx, span := c.genAI.StartToolInvocation(ctx, conversationId, "OrchestratorAgent", "IntentTool", query)

	decision, err := c.analyze(spanCtx, query, language)
	if err != nil {
		c.log.Warn("intent", "Classification failed, using fallback intent", map[string]interface{}{
			"chatId": conversationId,
			"error":  err.Error(),
		})
		decision = NewFallbackDecision(query)
		c.genAI.CompleteToolInvocation(span, "fallback: "+FallbackIntent, false)
	} else {
		c.genAI.CompleteToolInvocation(span, decision.TopIntent, true)
	}

	// Last write wins per conversation
	c.history.Set(ctx, conversationId, decision)

	return decision
}

func (c *LanguageClassifier) analyze(ctx context.Context, query, language string) (*Decision, error) {
	if language == "" {
		language = "nl"
	}

	payload := analyzeRequest{
		Kind: "Conversation",
		AnalysisInput: analyzeInput{
			ConversationItem: conversationItem{
				Id:            "user1",
				Text:          query,
				Modality:      "text",
				Language:      language,
				ParticipantId: "user1",
			},
		},
		Parameters: analyzeRequestParams{
			ProjectName:     c.projectName,
			Verbose:         true,
			DeploymentName:  c.modelDeployment,
			StringIndexType: "TextElement_V8",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/language/:analyze-conversations?api-version=%s", c.endpoint, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("language service request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("language service returned status %d", resp.StatusCode)
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, fmt.Errorf("empty response from language service")
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return c.normalize(query, &parsed), nil
}

// normalize maps the raw prediction into a Decision. Missing pieces become
// empty or zero values rather than failing the whole call.
func (c *LanguageClassifier) normalize(query string, parsed *analyzeResponse) *Decision {
	prediction := parsed.Result.Prediction

	decision := &Decision{
		Query:      query,
		TopIntent:  prediction.TopIntent,
		AllIntents: make(map[string]float64, len(prediction.Intents)),
		Entities:   make([]Entity, 0, len(prediction.Entities)),
	}
	if decision.TopIntent == "" {
		decision.TopIntent = "unknown"
	}

	for _, it := range prediction.Intents {
		name := it.Category
		if name == "" {
			name = "unknown"
		}
		decision.AllIntents[name] = it.ConfidenceScore
		if name == decision.TopIntent {
			decision.Confidence = it.ConfidenceScore
		}
	}

	for _, e := range prediction.Entities {
		decision.Entities = append(decision.Entities, Entity{
			Category:   e.Category,
			Text:       e.Text,
			Confidence: e.ConfidenceScore,
		})
	}

	return decision
}
