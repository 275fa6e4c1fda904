package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type named struct {
	Kind string `json:"kind"`
}

func (n named) EventName() string { return n.Kind }

// readEvent reads lines up to the next blank line, skipping comments
func readEvent(t *testing.T, r *bufio.Reader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "" {
			if len(lines) > 0 {
				return lines
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		lines = append(lines, line)
	}
}

func connect(t *testing.T, ctx context.Context, url string) *bufio.Reader {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	return bufio.NewReader(resp.Body)
}

func TestHubBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New(nil,
		WithSnapshot(func() any { return map[string]int{"nodes": 0} }),
		WithKeepalive(time.Hour),
	)
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	defer srv.Close()

	r := connect(t, ctx, srv.URL)
	assert.Equal(t, []string{`data: {"nodes":0}`}, readEvent(t, r))
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	h.Broadcast(named{Kind: "simulated"})
	assert.Equal(t, []string{"event: simulated", `data: {"kind":"simulated"}`}, readEvent(t, r))

	h.Broadcast([]int{1, 2})
	assert.Equal(t, []string{"data: [1,2]"}, readEvent(t, r))
}

func TestHubClientDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New(nil)
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	defer srv.Close()

	clientCtx, disconnect := context.WithCancel(ctx)
	connect(t, clientCtx, srv.URL)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	disconnect()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubShutdownClosesStreams(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := New(nil)
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	defer srv.Close()

	r := connect(t, context.Background(), srv.URL)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, err := r.ReadString('\n'); err != nil {
				return
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream stayed open after shutdown")
	}
	assert.Equal(t, 0, h.ClientCount())
}

func TestWithKeepaliveIgnoresNonPositive(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		h := New(nil, WithKeepalive(d))
		assert.Equal(t, 30*time.Second, h.keepalive, "interval %v", d)
	}

	h := New(nil, WithKeepalive(time.Second))
	assert.Equal(t, time.Second, h.keepalive)
}
