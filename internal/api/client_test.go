package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityconnect/cityconnect/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"u1","email":"a@b.c","name":"A","role":"warga"}`))
	})

	client.SetToken("secret-token")
	_, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestClientAnonymousOmitsAuthHeader(t *testing.T) {
	var hadAuth bool
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.Write([]byte(`{"reports":[],"total":0}`))
	})

	_, err := client.PublicReports(context.Background(), ReportFilter{})
	require.NoError(t, err)
	assert.False(t, hadAuth)
}

func TestClientErrorEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		check       func(t *testing.T, err error)
	}{
		{
			name:        "401 maps to AuthError with backend message",
			status:      http.StatusUnauthorized,
			body:        `{"error":"invalid credentials"}`,
			wantMessage: "invalid credentials",
			check: func(t *testing.T, err error) {
				assert.True(t, IsAuthError(err))
			},
		},
		{
			name:        "400 maps to ValidationError",
			status:      http.StatusBadRequest,
			body:        `{"error":"title is required"}`,
			wantMessage: "title is required",
			check: func(t *testing.T, err error) {
				assert.IsType(t, &ValidationError{}, err)
			},
		},
		{
			name:        "409 maps to ConflictError",
			status:      http.StatusConflict,
			body:        `{"error":"email already registered"}`,
			wantMessage: "email already registered",
			check: func(t *testing.T, err error) {
				assert.IsType(t, &ConflictError{}, err)
			},
		},
		{
			name:        "unparseable body falls back to generic message",
			status:      http.StatusInternalServerError,
			body:        `<html>panic</html>`,
			wantMessage: "request failed",
			check: func(t *testing.T, err error) {
				reqErr, ok := err.(*RequestError)
				require.True(t, ok)
				assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
			},
		},
		{
			name:        "empty error field falls back to generic message",
			status:      http.StatusForbidden,
			body:        `{"error":""}`,
			wantMessage: "request failed",
			check:       func(t *testing.T, err error) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Me(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.wantMessage, err.Error())
			tt.check(t, err)
		})
	}
}

func TestClientFiresExactlyOnce(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"slow down"}`))
	})

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, "slow down", err.Error())
	assert.Equal(t, int32(1), calls.Load())
}

func TestLogin(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{
			"token": "tok-123",
			"user": {"id":"u1","email":"a@b.c","name":"Ana","role":"warga"}
		}`))
	})

	resp, err := client.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", resp.Token)
	assert.Equal(t, "Ana", resp.User.Name)
	assert.Equal(t, model.RoleCitizen, resp.User.Role)

	// Login itself must not install the token; the session layer does.
	assert.Empty(t, client.Token())
}

func TestToggleVote(t *testing.T) {
	const reportID = "0d1f7a1e-5b7e-4a6a-9d5e-1c2b3a4d5e6f"

	var gotMethod string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Write([]byte(`{"vote_score":3}`))
	})

	up := model.VoteUpvote

	// Re-casting the active vote type removes it.
	_, err := client.ToggleVote(context.Background(), reportID, &up, model.VoteUpvote)
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)

	// A different type replaces via a fresh cast.
	_, err = client.ToggleVote(context.Background(), reportID, &up, model.VoteDownvote)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)

	// No active vote casts directly.
	_, err = client.ToggleVote(context.Background(), reportID, nil, model.VoteUpvote)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
}

func TestInvalidIDsRejectedBeforeRoundTrip(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := client.Report(context.Background(), "not-a-uuid")
	assert.IsType(t, &ValidationError{}, err)

	err = client.MarkNotificationRead(context.Background(), "also-bad")
	assert.IsType(t, &ValidationError{}, err)

	assert.Equal(t, int32(0), calls.Load())
}

func TestReportFilterQuery(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"reports":[],"total":0}`))
	})

	_, err := client.PublicReports(context.Background(), ReportFilter{
		Search:     "pothole",
		CategoryID: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "category_id=4&search=pothole", gotQuery)

	_, err = client.PublicReports(context.Background(), ReportFilter{})
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestNotificationStreamURL(t *testing.T) {
	client := NewClient("http://localhost:8080/", time.Second)

	got := client.NotificationStreamURL("a token+x")
	assert.Equal(t,
		"http://localhost:8080/api/v1/notifications/stream?token=a+token%2Bx",
		got,
	)
}

func TestUpdateReportStatus(t *testing.T) {
	const reportID = "0d1f7a1e-5b7e-4a6a-9d5e-1c2b3a4d5e6f"

	var gotPath, gotBody string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.UpdateReportStatus(context.Background(), reportID, model.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/reports/"+reportID+"/status", gotPath)
	assert.JSONEq(t, `{"status":"in_progress"}`, gotBody)
}
