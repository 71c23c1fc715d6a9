package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fyrsmithlabs/reposcribe/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllama_Generate(t *testing.T) {
	var got ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"llama3.2","response":"  It parses things.\n","done":true}`))
	}))
	defer srv.Close()

	o := NewOllama(srv.URL+"/", "", nil)
	out, err := o.Generate(context.Background(), "describe")
	require.NoError(t, err)

	assert.Equal(t, "  It parses things.\n", out, "trimming is the caller's job")
	assert.Equal(t, ollamaRequest{Model: "llama3.2", Prompt: "describe", Stream: false}, got)
}

func TestOllama_StreamFieldAlwaysSent(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer srv.Close()

	_, err := NewOllama(srv.URL, "codellama", nil).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, false, raw["stream"])
	assert.Equal(t, "codellama", raw["model"])
}

func TestOllama_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "backend error field is kept verbatim",
			status:     http.StatusNotFound,
			body:       `{"error":"model \"llama9\" not found, try pulling it first"}`,
			wantErr:    errs.ErrRemoteUnavailable,
			wantStatus: http.StatusNotFound,
			wantMsg:    `model "llama9" not found, try pulling it first`,
		},
		{
			name:       "plain text body",
			status:     http.StatusInternalServerError,
			body:       "out of memory\n",
			wantErr:    errs.ErrRemoteUnavailable,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "out of memory",
		},
		{
			name:       "empty body falls back to status",
			status:     http.StatusServiceUnavailable,
			wantErr:    errs.ErrRemoteUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "503 Service Unavailable",
		},
		{
			name:    "malformed success body",
			status:  http.StatusOK,
			body:    "<html>",
			wantErr: errs.ErrRemoteProtocol,
		},
		{
			name:       "error field on success status",
			status:     http.StatusOK,
			body:       `{"error":"context length exceeded"}`,
			wantErr:    errs.ErrRemoteUnavailable,
			wantStatus: http.StatusOK,
			wantMsg:    "context length exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewOllama(srv.URL, "llama3.2", nil).Generate(context.Background(), "p")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var re *errs.RemoteError
			if tt.wantMsg != "" {
				require.ErrorAs(t, err, &re)
				assert.Equal(t, tt.wantStatus, re.StatusCode)
				assert.Equal(t, tt.wantMsg, re.Message)
			}
		})
	}
}

func TestOllama_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewOllama(url, "", nil).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, errs.ErrRemoteUnavailable)
	assert.Zero(t, errs.StatusCode(err))
}

func TestOllama_Defaults(t *testing.T) {
	o := NewOllama("", "", nil)
	assert.Equal(t, DefaultOllamaURL, o.baseURL)
	assert.Equal(t, DefaultOllamaModel, o.Model())
}
