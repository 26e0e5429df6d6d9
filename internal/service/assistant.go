package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/config"
	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/domain"
)

// AssistantClient talks to the OpenAI Assistants v2 API over plain HTTP.
type AssistantClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewAssistantClient(apiKey, baseURL string) *AssistantClient {
	return &AssistantClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: config.AssistantRequestTimeout},
	}
}

func (c *AssistantClient) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("OpenAI-Beta", "assistants=v2")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("assistant api request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("assistant api status %d: %s", resp.StatusCode, truncateBody(raw))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func truncateBody(raw []byte) string {
	const max = 256
	s := string(raw)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// CreateThread opens a new conversation thread and returns its id.
func (c *AssistantClient) CreateThread(ctx context.Context) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/threads", struct{}{}, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// AddMessage appends a user message to the thread.
func (c *AssistantClient) AddMessage(ctx context.Context, threadID, text string) error {
	payload := map[string]string{"role": "user", "content": text}
	return c.do(ctx, http.MethodPost, "/threads/"+threadID+"/messages", payload, nil)
}

// StartRun begins an assistant run over the thread and returns the run id.
func (c *AssistantClient) StartRun(ctx context.Context, threadID, assistantID string) (string, error) {
	payload := map[string]string{"assistant_id": assistantID}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/threads/"+threadID+"/runs", payload, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// RunState is one observation of a run: its status and, when the run is
// suspended on requires_action, the pending tool calls in backend order.
type RunState struct {
	Status    domain.RunStatus
	ToolCalls []domain.ToolCall
}

// GetRun fetches the current run status.
func (c *AssistantClient) GetRun(ctx context.Context, threadID, runID string) (RunState, error) {
	var out struct {
		Status         string `json:"status"`
		RequiredAction struct {
			SubmitToolOutputs struct {
				ToolCalls []struct {
					ID       string `json:"id"`
					Function struct {
						Name      string `json:"name"`
						Arguments string `json:"arguments"`
					} `json:"function"`
				} `json:"tool_calls"`
			} `json:"submit_tool_outputs"`
		} `json:"required_action"`
	}
	if err := c.do(ctx, http.MethodGet, "/threads/"+threadID+"/runs/"+runID, nil, &out); err != nil {
		return RunState{}, err
	}

	state := RunState{Status: domain.RunStatus(out.Status)}
	for _, call := range out.RequiredAction.SubmitToolOutputs.ToolCalls {
		state.ToolCalls = append(state.ToolCalls, domain.ToolCall{
			ID:        call.ID,
			Function:  call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return state, nil
}

// ListMessages returns up to limit thread messages ordered oldest-first.
// Multi-part content is reduced to its first text part.
func (c *AssistantClient) ListMessages(ctx context.Context, threadID string, limit int) ([]domain.ChatMessage, error) {
	var out struct {
		Data []struct {
			Role    string `json:"role"`
			Content []struct {
				Type string `json:"type"`
				Text struct {
					Value string `json:"value"`
				} `json:"text"`
			} `json:"content"`
		} `json:"data"`
	}
	path := "/threads/" + threadID + "/messages?order=desc&limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}

	// The backend returns newest-first; reverse for presentation order.
	history := make([]domain.ChatMessage, 0, len(out.Data))
	for i := len(out.Data) - 1; i >= 0; i-- {
		item := out.Data[i]
		var content string
		if len(item.Content) > 0 {
			content = item.Content[0].Text.Value
		}
		history = append(history, domain.ChatMessage{Role: item.Role, Content: content})
	}
	return history, nil
}

// SubmitToolOutputs posts the collected tool results back to the run.
func (c *AssistantClient) SubmitToolOutputs(ctx context.Context, threadID, runID string, results []domain.ToolCallResult) error {
	payload := map[string]any{"tool_outputs": results}
	path := "/threads/" + threadID + "/runs/" + runID + "/submit_tool_outputs"
	return c.do(ctx, http.MethodPost, path, payload, nil)
}
