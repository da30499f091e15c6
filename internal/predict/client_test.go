package predict

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{BaseURL: server.URL + "/"}), &calls
}

func TestClient_Predict_SendsOneElementBatch(t *testing.T) {
	var gotBody map[string][]float64
	client, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":[12.75,99],"model_info":{"coefficient":2.5,"intercept":0.25}}`))
	})

	prediction, err := client.Predict(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, 12.75, prediction)
	assert.Equal(t, []float64{5}, gotBody["X_test"])
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestClient_Predict_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "server error message is surfaced",
			status:      http.StatusBadRequest,
			body:        `{"error":"Input values must be between 0 and 10"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Input values must be between 0 and 10",
		},
		{
			name:        "non-json error body falls back to status",
			status:      http.StatusInternalServerError,
			body:        `<html>boom</html>`,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "request failed with status code 500",
		},
		{
			name:        "malformed success body",
			status:      http.StatusOK,
			body:        `{"predictions":`,
			wantStatus:  http.StatusOK,
			wantMessage: "invalid response body",
		},
		{
			name:        "empty predictions",
			status:      http.StatusOK,
			body:        `{"predictions":[]}`,
			wantStatus:  http.StatusOK,
			wantMessage: "response contained no predictions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Predict(context.Background(), 3)

			require.Error(t, err)
			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, tt.wantStatus, reqErr.StatusCode)
			assert.Contains(t, Message(err), tt.wantMessage)
			assert.True(t, IsRequestError(err))
		})
	}
}

func TestClient_Predict_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(ClientConfig{BaseURL: url})
	_, err := client.Predict(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, IsRequestError(err))
	assert.NotEmpty(t, Message(err))
	assert.NotEqual(t, FallbackMessage, Message(err))
}

func TestClient_Predict_CancelledContext(t *testing.T) {
	client, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predictions":[1]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Predict(ctx, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestClient_Health(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"healthy","model_info":{"coefficient":2.4,"intercept":0.3}}`))
	})

	info, err := client.Health(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &ModelInfo{Coefficient: 2.4, Intercept: 0.3}, info)
}

func TestClient_Health_MissingModelInfo(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	info, err := client.Health(context.Background())

	assert.Nil(t, info)
	assert.Error(t, err)
}

func TestClient_Endpoint(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "http://localhost:5000/"})
	assert.Equal(t, "http://localhost:5000/predict", client.Endpoint())
}

func TestClient_SendsUserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"predictions":[1]}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{BaseURL: server.URL, UserAgent: "linpredict/1.2.3"})
	_, err := client.Predict(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, "linpredict/1.2.3", got)
}
