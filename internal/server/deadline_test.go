package server

import (
	"bufio"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/content-pipeline/internal/pipeline"
)

// shortWriteTimeout stands in for a server-wide WriteTimeout that is
// shorter than a pipeline run
const shortWriteTimeout = 100 * time.Millisecond

// slowRun outlasts shortWriteTimeout
const slowRun = 400 * time.Millisecond

func startHTTPServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	ts := httptest.NewUnstartedServer(handler)
	ts.Config.WriteTimeout = shortWriteTimeout
	ts.Start()
	t.Cleanup(ts.Close)
	return ts
}

func TestGenerate_SlowRunOutlivesWriteTimeout(t *testing.T) {
	tests := []struct {
		name       string
		runTimeout time.Duration
	}{
		{name: "no run timeout", runTimeout: 0},
		{name: "run timeout", runTimeout: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{result: passedResult(), delay: slowRun}
			s := New(Config{Logger: discardLogger(), RunTimeout: tt.runTimeout}, runner, nil)
			ts := startHTTPServer(t, s.Handler())

			resp, err := ts.Client().Post(ts.URL+"/api/generate", "application/json", strings.NewReader(`{"prd":"TimeWise PRD"}`))
			require.NoError(t, err)
			defer resp.Body.Close() //nolint:errcheck

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(RunIDHeader))

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, passedResult().BlogPost, body["blogPost"])
			assert.Equal(t, "Passed", body["factCheckStatus"])
		})
	}
}

func TestWriteTimeout_StillAppliesToOtherHandlers(t *testing.T) {
	s := newTestServer(&fakeRunner{}, nil)
	slow := s.withLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(slowRun)
		s.jsonResponse(w, http.StatusOK, map[string]string{"status": "late"})
	}))
	ts := startHTTPServer(t, slow)

	resp, err := ts.Client().Get(ts.URL)
	if err == nil {
		defer resp.Body.Close() //nolint:errcheck
		_, err = io.ReadAll(resp.Body)
	}
	assert.Error(t, err)
}

func TestGenerateStream_SlowRunOutlivesWriteTimeout(t *testing.T) {
	runner := &fakeRunner{
		result: passedResult(),
		delay:  slowRun,
		events: []pipeline.ProgressEvent{{Step: "research", Message: "Research complete"}},
	}
	s := New(Config{Logger: discardLogger()}, runner, nil)
	ts := startHTTPServer(t, s.Handler())

	resp, err := ts.Client().Post(ts.URL+"/api/generate/stream", "application/json", strings.NewReader(`{"prd":"TimeWise PRD"}`))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	events := readEvents(t, string(raw))
	require.Len(t, events, 2)
	assert.Equal(t, EventStep, events[0][0])
	assert.Equal(t, EventComplete, events[1][0])
	assert.Contains(t, events[1][1], "TimeWise")
}

func TestMCPStream_OutlivesWriteTimeout(t *testing.T) {
	s := New(Config{Logger: discardLogger()}, &fakeRunner{result: passedResult()}, nil)
	ts := startHTTPServer(t, s.Handler())

	stream, err := ts.Client().Get(ts.URL + MCPBasePath + "/sse")
	require.NoError(t, err)
	defer stream.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusOK, stream.StatusCode)

	lines := make(chan string, 64)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stream.Body)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
	}()

	nextData := func() string {
		t.Helper()
		for {
			select {
			case line, ok := <-lines:
				require.True(t, ok, "stream closed")
				if strings.HasPrefix(line, "data:") {
					return strings.TrimSpace(strings.TrimPrefix(line, "data:"))
				}
			case <-time.After(5 * time.Second):
				t.Fatal("timed out waiting for SSE data")
			}
		}
	}

	endpoint := nextData()
	require.Contains(t, endpoint, MCPBasePath+"/message")
	if strings.HasPrefix(endpoint, "/") {
		endpoint = ts.URL + endpoint
	}

	time.Sleep(slowRun)

	resp, err := ts.Client().Post(endpoint, "application/json", strings.NewReader(`{"jsonrpc":"2.0","id":7,"method":"ping"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Less(t, resp.StatusCode, http.StatusBadRequest)

	reply := nextData()
	assert.Contains(t, reply, `"id":7`)
}
