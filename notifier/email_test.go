package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNotifier(url string, maxRetries int) *EmailNotifier {
	return &EmailNotifier{
		baseURL:    url,
		apiKey:     "test-key",
		sender:     "noreply@example.com",
		maxRetries: maxRetries,
		client:     newMailClient(),
	}
}

func TestEmailNotifierSendsPayload(t *testing.T) {
	var got mailPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := testNotifier(srv.URL, 1)
	ev := NewEvent(EventApplicationSubmitted, "applicant@example.com", map[string]string{
		"reference":       "APP-3F9C21A8D0",
		"full_name":       "Jordan Reyes",
		"investment_name": "Harbor District",
		"amount":          "25000.00",
	})

	require.NoError(t, n.Notify(context.Background(), ev))
	assert.Equal(t, "noreply@example.com", got.From)
	assert.Equal(t, "applicant@example.com", got.To)
	assert.Contains(t, got.Subject, "APP-3F9C21A8D0")
	assert.Contains(t, got.Text, "Jordan Reyes")
	assert.Contains(t, got.Text, "Harbor District")
}

func TestEmailNotifierRetriesOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := testNotifier(srv.URL, 3)
	err := n.Notify(context.Background(), NewEvent(EventPaymentConfirmed, "a@b.com", nil))
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestEmailNotifierGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := testNotifier(srv.URL, 2)
	err := n.Notify(context.Background(), NewEvent(EventFinalApproval, "a@b.com", nil))
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestEmailNotifierResetsClientOnAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := testNotifier(srv.URL, 2)
	before := n.client
	err := n.Notify(context.Background(), NewEvent(EventApplicationApproved, "a@b.com", nil))
	require.Error(t, err)
	assert.True(t, isAuthError(err))
	assert.NotSame(t, before, n.client, "auth failure must rebuild the client")
}

func TestEmailNotifierHonorsContextDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	n := testNotifier(srv.URL, 3)
	start := time.Now()
	err := n.Notify(ctx, NewEvent(EventApplicationSubmitted, "a@b.com", nil))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second, "must not sit out the full backoff after cancellation")
}

func TestRenderEmailSubjects(t *testing.T) {
	data := map[string]string{"reference": "APP-AAAA111122"}
	cases := map[string]string{
		EventApplicationSubmitted: "Received",
		EventApplicationApproved:  "Awaiting Payment",
		EventPaymentConfirmed:     "Payment Received",
		EventFinalApproval:        "Confirmed",
	}
	for event, want := range cases {
		subject, body := renderEmail(Event{Name: event, Data: data})
		assert.Containsf(t, subject, want, "event %s", event)
		assert.Contains(t, subject, "APP-AAAA111122")
		assert.NotEmpty(t, body)
	}

	subject, _ := renderEmail(Event{Name: "something-else", Data: data})
	assert.True(t, strings.HasPrefix(subject, "Notification"))
}

func TestDispatchNilNotifierIsNoop(t *testing.T) {
	// Must not panic
	Dispatch(nil, NewEvent(EventApplicationSubmitted, "a@b.com", nil))
}

func TestNewEventFillsDefaults(t *testing.T) {
	ev := NewEvent(EventApplicationSubmitted, "a@b.com", nil)
	assert.NotEmpty(t, ev.ID)
	assert.NotNil(t, ev.Data)
}
