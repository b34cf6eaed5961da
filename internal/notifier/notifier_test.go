package notifier

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhythmiaheartcare/rhythmia-web/internal/domain"
	"github.com/rhythmiaheartcare/rhythmia-web/pkg/httpclient"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient() *httpclient.Client {
	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	cfg.Timeout = 5 * time.Second
	return httpclient.New(cfg)
}

func sampleReview() *domain.Review {
	return &domain.Review{
		ID:            "rev-123",
		Name:          "Jordan",
		Email:         "jordan@example.com",
		Rating:        4,
		Comment:       "Works well",
		ApprovalToken: "tok1234567890tok1234567890tok123",
	}
}

func TestApprovalLink(t *testing.T) {
	link := ApprovalLink("https://rhythmia.example.com", "rev-123", "tok-abc")

	assert.Equal(t, "https://rhythmia.example.com/approve-review?id=rev-123&token=tok-abc", link)
}

func TestNotify_SendsFormPayload(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewEmailNotifier(Config{
		AdminEmail:   "admin@rhythmia.example.com",
		EndpointBase: srv.URL,
		SiteOrigin:   "https://rhythmia.example.com",
	}, newTestClient(), newTestLogger())

	err := n.Notify(context.Background(), sampleReview())

	require.NoError(t, err)
	assert.Equal(t, "/admin@rhythmia.example.com", gotPath)
	assert.Equal(t, "New Product Review Submitted", gotBody["_subject"])
	assert.Equal(t, "table", gotBody["_template"])
	assert.Equal(t, "Jordan", gotBody["Reviewer Name"])
	assert.Equal(t, "jordan@example.com", gotBody["Reviewer Email"])
	assert.Equal(t, "4 / 5 Stars", gotBody["Rating"])
	assert.Equal(t, "Works well", gotBody["Comment"])
	assert.Equal(t, "rev-123", gotBody["Review ID"])
	assert.Equal(t,
		"https://rhythmia.example.com/approve-review?id=rev-123&token=tok1234567890tok1234567890tok123",
		gotBody["Approve Review"],
	)
}

func TestNotify_NoAdminEmailIsNoOp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	n := NewEmailNotifier(Config{
		AdminEmail:   "",
		EndpointBase: srv.URL,
		SiteOrigin:   "https://rhythmia.example.com",
	}, newTestClient(), newTestLogger())

	err := n.Notify(context.Background(), sampleReview())

	require.NoError(t, err)
	assert.Zero(t, calls.Load())
}

func TestNotify_RelayErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	n := NewEmailNotifier(Config{
		AdminEmail:   "admin@rhythmia.example.com",
		EndpointBase: srv.URL,
		SiteOrigin:   "https://rhythmia.example.com",
	}, newTestClient(), newTestLogger())

	err := n.Notify(context.Background(), sampleReview())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestNotify_RelayUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	n := NewEmailNotifier(Config{
		AdminEmail:   "admin@rhythmia.example.com",
		EndpointBase: srv.URL,
		SiteOrigin:   "https://rhythmia.example.com",
	}, newTestClient(), newTestLogger())

	err := n.Notify(context.Background(), sampleReview())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "send review notification")
}
