package requester

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/venturloop/auth-relay/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRequester_PostJSON(t *testing.T) {
	tests := []struct {
		name           string
		payload        interface{}
		serverResponse func(w http.ResponseWriter, r *http.Request)
		checkResponse  func(t *testing.T, response *Response, err error)
	}{
		{
			name:    "JSON body is sent",
			payload: map[string]string{"idToken": "IT1"},
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/auth/google-signup", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "IT1", body["idToken"])

				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"status":"created"}`))
			},
			checkResponse: func(t *testing.T, response *Response, err error) {
				require.NoError(t, err)
				assert.Equal(t, http.StatusCreated, response.StatusCode)
				assert.True(t, response.OK())
				assert.JSONEq(t, `{"status":"created"}`, string(response.Body))
			},
		},
		{
			name:    "error status is returned, not an error",
			payload: map[string]string{},
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"boom"}`))
			},
			checkResponse: func(t *testing.T, response *Response, err error) {
				require.NoError(t, err)
				assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
				assert.False(t, response.OK())
			},
		},
		{
			name:    "unencodable payload",
			payload: map[string]interface{}{"c": make(chan int)},
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				t.Error("server must not be called")
			},
			checkResponse: func(t *testing.T, response *Response, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to encode request body")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			r := NewHTTPRequester(server.Client())
			resp, err := r.PostJSON(context.Background(), server.URL+"/auth/google-signup", tt.payload)
			tt.checkResponse(t, resp, err)
		})
	}
}

func TestHTTPRequester_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r := NewHTTPRequester(&http.Client{Timeout: 20 * time.Millisecond})
	_, err := r.PostJSON(context.Background(), server.URL, map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestNewHTTPClient(t *testing.T) {
	cfg := &config.Config{HTTPClient: config.HTTPClientConfig{Timeout: 3 * time.Second}}
	assert.Equal(t, 3*time.Second, NewHTTPClient(cfg).Timeout)

	assert.Equal(t, defaultTimeout, NewHTTPClient(&config.Config{}).Timeout)
}
