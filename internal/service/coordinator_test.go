package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/domain"
)

func newTestCoordinator(t *testing.T, mux *http.ServeMux) *Coordinator {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	coord := NewCoordinator(NewAssistantClient("test-key", srv.URL), "asst_1")
	coord.pollInterval = time.Millisecond
	return coord
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

type runStatusBody struct {
	Status         string `json:"status"`
	RequiredAction *struct {
		SubmitToolOutputs struct {
			ToolCalls []fakeToolCall `json:"tool_calls"`
		} `json:"submit_tool_outputs"`
	} `json:"required_action,omitempty"`
}

type fakeToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

func requiresActionBody(callID, function, arguments string) runStatusBody {
	body := runStatusBody{Status: "requires_action"}
	body.RequiredAction = &struct {
		SubmitToolOutputs struct {
			ToolCalls []fakeToolCall `json:"tool_calls"`
		} `json:"submit_tool_outputs"`
	}{}
	call := fakeToolCall{ID: callID, Type: "function"}
	call.Function.Name = function
	call.Function.Arguments = arguments
	body.RequiredAction.SubmitToolOutputs.ToolCalls = []fakeToolCall{call}
	return body
}

type historyItem struct {
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text struct {
			Value string `json:"value"`
		} `json:"text"`
	} `json:"content"`
}

func historyBody(entries ...[2]string) map[string]any {
	data := make([]historyItem, 0, len(entries))
	for _, e := range entries {
		item := historyItem{Role: e[0]}
		part := struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		}{Type: "text"}
		part.Text.Value = e[1]
		item.Content = append(item.Content, part)
		data = append(data, item)
	}
	return map[string]any{"data": data}
}

// baseMux wires the happy-path thread/message/run endpoints; the run status
// endpoint is supplied by the test.
func baseMux(runStatus http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /threads", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"id": "thread_1"})
	})
	mux.HandleFunc("POST /threads/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"id": "msg_1"})
	})
	mux.HandleFunc("POST /threads/{id}/runs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"id": "run_1", "status": "queued"})
	})
	mux.HandleFunc("GET /threads/{id}/runs/{rid}", runStatus)
	return mux
}

func TestRunTurnCompletedExtractsReply(t *testing.T) {
	var polls atomic.Int32
	mux := baseMux(func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			writeJSON(w, runStatusBody{Status: "in_progress"})
			return
		}
		writeJSON(w, runStatusBody{Status: "completed"})
	})
	// Backend returns newest-first.
	mux.HandleFunc("GET /threads/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "desc", r.URL.Query().Get("order"))
		assert.Equal(t, "30", r.URL.Query().Get("limit"))
		writeJSON(w, historyBody(
			[2]string{"assistant", "Здравствуйте! Чем помочь?"},
			[2]string{"user", "Привет"},
		))
	})

	coord := newTestCoordinator(t, mux)
	ex, err := coord.RunTurn(context.Background(), "", "Привет")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, ex.Status)
	assert.Equal(t, "thread_1", ex.ThreadID)
	assert.Equal(t, "run_1", ex.RunID)
	assert.Equal(t, "Здравствуйте! Чем помочь?", ex.Reply)
	// History re-ordered oldest-first for presentation.
	require.Len(t, ex.History, 2)
	assert.Equal(t, "user", ex.History[0].Role)
	assert.Equal(t, int32(3), polls.Load())
}

func TestRunTurnReusesExistingThread(t *testing.T) {
	var threadCreates atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /threads", func(w http.ResponseWriter, r *http.Request) {
		threadCreates.Add(1)
		writeJSON(w, map[string]string{"id": "thread_new"})
	})
	mux.HandleFunc("POST /threads/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"id": "msg_1"})
	})
	mux.HandleFunc("POST /threads/{id}/runs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"id": "run_1"})
	})
	mux.HandleFunc("GET /threads/{id}/runs/{rid}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "thread_keep", r.PathValue("id"))
		writeJSON(w, runStatusBody{Status: "completed"})
	})
	mux.HandleFunc("GET /threads/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, historyBody([2]string{"assistant", "ok"}))
	})

	coord := newTestCoordinator(t, mux)
	ex, err := coord.RunTurn(context.Background(), "thread_keep", "ещё вопрос")
	require.NoError(t, err)
	assert.Equal(t, "thread_keep", ex.ThreadID)
	assert.Zero(t, threadCreates.Load())
}

func TestRunTurnRequiresActionExposesToolCalls(t *testing.T) {
	mux := baseMux(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, requiresActionBody("call_1", SaveBookingFunction, `{"name":"Анна"}`))
	})

	coord := newTestCoordinator(t, mux)
	ex, err := coord.RunTurn(context.Background(), "", "Запиши меня")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRequiresAction, ex.Status)
	require.Len(t, ex.ToolCalls, 1)
	assert.Equal(t, "call_1", ex.ToolCalls[0].ID)
	assert.Equal(t, SaveBookingFunction, ex.ToolCalls[0].Function)
	assert.JSONEq(t, `{"name":"Анна"}`, ex.ToolCalls[0].Arguments)
	assert.Empty(t, ex.Reply)
}

func TestResumeReentersPollLoop(t *testing.T) {
	var submitted atomic.Int32
	mux := baseMux(func(w http.ResponseWriter, r *http.Request) {
		if submitted.Load() == 0 {
			writeJSON(w, requiresActionBody("call_1", SaveBookingFunction, `{}`))
			return
		}
		writeJSON(w, runStatusBody{Status: "completed"})
	})
	mux.HandleFunc("POST /threads/{id}/runs/{rid}/submit_tool_outputs", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			ToolOutputs []domain.ToolCallResult `json:"tool_outputs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.ToolOutputs, 1)
		assert.Equal(t, "call_1", payload.ToolOutputs[0].ToolCallID)
		submitted.Add(1)
		writeJSON(w, map[string]string{"id": "run_1", "status": "queued"})
	})
	mux.HandleFunc("GET /threads/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, historyBody([2]string{"assistant", "Записал вас!"}))
	})

	coord := newTestCoordinator(t, mux)
	ex, err := coord.RunTurn(context.Background(), "", "Запиши меня")
	require.NoError(t, err)
	require.Equal(t, domain.StatusRequiresAction, ex.Status)

	results := []domain.ToolCallResult{{ToolCallID: "call_1", Output: `{"success":true}`}}
	ex, err = coord.ResumeWithToolResults(context.Background(), ex.ThreadID, ex.RunID, results)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, ex.Status)
	assert.Equal(t, "Записал вас!", ex.Reply)
	assert.Equal(t, int32(1), submitted.Load())
}

func TestRunTurnPollingExhausted(t *testing.T) {
	mux := baseMux(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, runStatusBody{Status: "in_progress"})
	})

	coord := newTestCoordinator(t, mux)
	coord.maxAttempts = 3

	_, err := coord.RunTurn(context.Background(), "", "вопрос")
	require.ErrorIs(t, err, domain.ErrPollingExhausted)
}

func TestRunTurnPollFailureAbortsImmediately(t *testing.T) {
	var polls atomic.Int32
	mux := baseMux(func(w http.ResponseWriter, r *http.Request) {
		polls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	coord := newTestCoordinator(t, mux)
	_, err := coord.RunTurn(context.Background(), "", "вопрос")
	require.ErrorIs(t, err, domain.ErrPollFailed)
	assert.Equal(t, int32(1), polls.Load())
}

func TestRunTurnStageFailures(t *testing.T) {
	tests := []struct {
		name     string
		failPath string
		wantErr  error
	}{
		{"thread creation", "POST /threads", domain.ErrThreadCreate},
		{"message post", "POST /threads/{id}/messages", domain.ErrMessagePost},
		{"run start", "POST /threads/{id}/runs", domain.ErrRunStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			ok := map[string]any{
				"POST /threads":               map[string]string{"id": "thread_1"},
				"POST /threads/{id}/messages": map[string]string{"id": "msg_1"},
				"POST /threads/{id}/runs":     map[string]string{"id": "run_1"},
			}
			for pattern, body := range ok {
				if pattern == tt.failPath {
					mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
						http.Error(w, "boom", http.StatusInternalServerError)
					})
					continue
				}
				mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
					writeJSON(w, body)
				})
			}

			coord := newTestCoordinator(t, mux)
			_, err := coord.RunTurn(context.Background(), "", "вопрос")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHistoryFetchFailureIsSoftError(t *testing.T) {
	mux := baseMux(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, runStatusBody{Status: "completed"})
	})
	mux.HandleFunc("GET /threads/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	coord := newTestCoordinator(t, mux)
	ex, err := coord.RunTurn(context.Background(), "", "вопрос")
	require.ErrorIs(t, err, domain.ErrHistoryFetch)
	// The run's success is not conflated with run failure.
	assert.Equal(t, domain.StatusCompleted, ex.Status)
}

func TestRunFailedPropagatesWithoutReply(t *testing.T) {
	mux := baseMux(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, runStatusBody{Status: "failed"})
	})

	coord := newTestCoordinator(t, mux)
	ex, err := coord.RunTurn(context.Background(), "", "вопрос")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, ex.Status)
	assert.Empty(t, ex.Reply)
}

func TestAwaitRunStopsOnContextCancel(t *testing.T) {
	mux := baseMux(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, runStatusBody{Status: "in_progress"})
	})

	coord := newTestCoordinator(t, mux)
	coord.pollInterval = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := coord.RunTurn(ctx, "", "вопрос")
	require.ErrorIs(t, err, context.Canceled)
}
