package service

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/domain"
)

func newTestConsult(t *testing.T, mux *http.ServeMux, appender *fakeAppender, notifier *fakeNotifier) *ConsultService {
	t.Helper()
	coord := newTestCoordinator(t, mux)
	dispatcher := NewToolDispatcher(newTestBooking(appender, notifier))
	return NewConsultService(coord, dispatcher)
}

func TestAskCompletesPlainTurn(t *testing.T) {
	mux := baseMux(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, runStatusBody{Status: "completed"})
	})
	mux.HandleFunc("GET /threads/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, historyBody([2]string{"assistant", "Маникюр стоит от 1500 рублей."}))
	})

	svc := newTestConsult(t, mux, &fakeAppender{}, &fakeNotifier{})
	reply, threadID, err := svc.Ask(context.Background(), "", "Сколько стоит маникюр?")
	require.NoError(t, err)
	assert.Equal(t, "Маникюр стоит от 1500 рублей.", reply)
	assert.Equal(t, "thread_1", threadID)
}

func TestAskToolRoundTripPersistsBooking(t *testing.T) {
	var submitted atomic.Int32
	args := `{"name":"Анна","phone":"+79990001122","service":"Маникюр","datetime":"05.05.2099 14:30"}`

	mux := baseMux(func(w http.ResponseWriter, r *http.Request) {
		if submitted.Load() == 0 {
			writeJSON(w, requiresActionBody("call_1", SaveBookingFunction, args))
			return
		}
		writeJSON(w, runStatusBody{Status: "completed"})
	})
	mux.HandleFunc("POST /threads/{id}/runs/{rid}/submit_tool_outputs", func(w http.ResponseWriter, r *http.Request) {
		submitted.Add(1)
		writeJSON(w, map[string]string{"id": "run_1"})
	})
	mux.HandleFunc("GET /threads/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, historyBody([2]string{"assistant", "Записала вас на маникюр!"}))
	})

	appender := &fakeAppender{}
	notifier := &fakeNotifier{}
	svc := newTestConsult(t, mux, appender, notifier)

	reply, _, err := svc.Ask(context.Background(), "", "Запиши меня на маникюр")
	require.NoError(t, err)
	assert.Equal(t, "Записала вас на маникюр!", reply)

	require.Equal(t, 1, appender.count())
	assert.Equal(t, domain.SourceAssistant, appender.rows[0].Source)
	assert.Equal(t, "Анна", appender.rows[0].Name)
	assert.Equal(t, 1, notifier.count())
}

func TestAskStopsAfterToolRoundCap(t *testing.T) {
	// Backend keeps demanding tool calls no matter what is submitted.
	mux := baseMux(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, requiresActionBody("call_1", SaveBookingFunction, `{}`))
	})
	var submits atomic.Int32
	mux.HandleFunc("POST /threads/{id}/runs/{rid}/submit_tool_outputs", func(w http.ResponseWriter, r *http.Request) {
		submits.Add(1)
		writeJSON(w, map[string]string{"id": "run_1"})
	})

	svc := newTestConsult(t, mux, &fakeAppender{}, &fakeNotifier{})
	svc.maxRounds = 2

	_, threadID, err := svc.Ask(context.Background(), "", "Запиши меня")
	require.ErrorIs(t, err, domain.ErrToolRoundsExceeded)
	assert.Equal(t, "thread_1", threadID)
	assert.Equal(t, int32(2), submits.Load())
}

func TestAskFallsBackWhenHistoryHasNoAssistantReply(t *testing.T) {
	mux := baseMux(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, runStatusBody{Status: "completed"})
	})
	mux.HandleFunc("GET /threads/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, historyBody([2]string{"user", "Запиши меня"}))
	})

	svc := newTestConsult(t, mux, &fakeAppender{}, &fakeNotifier{})
	reply, _, err := svc.Ask(context.Background(), "", "Запиши меня")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply)
}

func TestAskReturnsThreadOnRunFailure(t *testing.T) {
	mux := baseMux(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, runStatusBody{Status: "failed"})
	})

	svc := newTestConsult(t, mux, &fakeAppender{}, &fakeNotifier{})
	_, threadID, err := svc.Ask(context.Background(), "", "вопрос")
	require.Error(t, err)
	// Thread survives so the next turn does not restart the conversation.
	assert.Equal(t, "thread_1", threadID)
}
