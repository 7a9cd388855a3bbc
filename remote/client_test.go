package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/poiesic/officelines/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hitsBody = `{
  "hits": [
    {"id": 2, "season": 1, "episode": 1, "scene": 2, "line_text": "Bears. Beets. Battlestar Galactica.", "speaker": "Jim Halpert", "objectID": "2"},
    {"id": 5, "season": 2, "episode": 3, "scene": 2, "line_text": "Identity theft is not a joke, Jim!", "speaker": "Dwight Schrute", "objectID": "5"}
  ],
  "nbHits": 2, "page": 0, "nbPages": 1, "hitsPerPage": 50, "processingTimeMS": 1, "query": "jim"
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := validConfig()
	cfg.BaseURL = server.URL
	cfg.RetryDelay = time.Millisecond

	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewClient(nil)
		assert.ErrorIs(t, err, ErrConfigMissing)
	})

	t.Run("placeholder config", func(t *testing.T) {
		_, err := NewClient(NewConfig(WithCredentials("YOUR_APP_ID", "key"), WithIndexName("lines")))
		assert.ErrorIs(t, err, ErrConfigMissing)
	})

	t.Run("options", func(t *testing.T) {
		httpClient := &http.Client{}
		client, err := NewClient(validConfig(), WithHTTPClient(httpClient), WithLogger(nil))
		require.NoError(t, err)
		assert.Same(t, httpClient, client.httpClient)
		assert.NotNil(t, client.logger)
		assert.Equal(t, "https://APPID-dsn.algolia.net/1/indexes/office_lines/query", client.endpoint())
	})
}

func TestClient_Search(t *testing.T) {
	var request struct {
		method, path, contentType, appID, apiKey string
		body                                     queryRequest
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		request.method = r.Method
		request.path = r.URL.Path
		request.contentType = r.Header.Get("Content-Type")
		request.appID = r.Header.Get("X-Algolia-Application-Id")
		request.apiKey = r.Header.Get("X-Algolia-API-Key")
		_ = json.NewDecoder(r.Body).Decode(&request.body)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(hitsBody))
	})

	lines, err := client.Search(context.Background(), "  Jim ")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, request.method)
	assert.Equal(t, "/1/indexes/office_lines/query", request.path)
	assert.Equal(t, "application/json", request.contentType)
	assert.Equal(t, "APPID", request.appID)
	assert.Equal(t, "search-key", request.apiKey)
	assert.Equal(t, queryRequest{Query: "Jim", HitsPerPage: 50}, request.body)

	require.Len(t, lines, 2)
	assert.Equal(t, &core.Line{Id: 2, Season: 1, Episode: 1, Scene: 2,
		Text: "Bears. Beets. Battlestar Galactica.", Speaker: "Jim Halpert"}, lines[0])
	assert.Equal(t, core.ID(5), lines[1].Id)
	assert.Equal(t, "S2E3 - Dwight Schrute: Identity theft is not a joke, Jim!", lines[1].DisplayText())
}

func TestClient_Query(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(hitsBody))
	})

	resp, err := client.Query(context.Background(), "jim")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.NbHits)
	assert.Equal(t, "jim", resp.Query)
	assert.Equal(t, "5", resp.Hits[1].ObjectID)
}

func TestClient_EmptyQuery(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	lines, err := client.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
	assert.Zero(t, calls.Load(), "blank queries must not reach the service")
}

func TestClient_NoHits(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"nbHits": 0}`))
	})

	lines, err := client.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(hitsBody))
	})

	lines, err := client.Search(context.Background(), "jim")
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Search(context.Background(), "jim")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "502")
	assert.Equal(t, int32(3), calls.Load(), "one attempt plus two retries")
}

func TestClient_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "Invalid Application-ID or API key", "status": 403}`))
	})

	_, err := client.Search(context.Background(), "jim")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "Invalid Application-ID or API key")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_MalformedResponse(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"hits": [`))
	})

	_, err := client.Search(context.Background(), "jim")
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ContextCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(hitsBody))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "jim")
	assert.ErrorIs(t, err, context.Canceled)
}
