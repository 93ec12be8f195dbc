package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/pricing-engine/internal/platform/logger"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, v any) *http.Response {
	b, _ := json.Marshal(v)
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(b)),
	}
}

func newTestClient(t *testing.T, rt roundTripperFunc) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:  "http://advisor/",
		APIKey:   "sk-test",
		Model:    "llama-3.1-8b-instruct",
		Timeout:  2 * time.Second,
		JSONMode: true,
	}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c.WithHTTPClient(&http.Client{Transport: rt})
}

func TestCompleteSendsChatRequest(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("auth header=%q", got)
		}
		var in chatRequest
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			t.Fatalf("decode req: %v", err)
		}
		if in.Model != "llama-3.1-8b-instruct" || len(in.Messages) != 2 || in.Messages[0].Role != "system" {
			t.Fatalf("unexpected request: %+v", in)
		}
		if in.ResponseFormat == nil || in.ResponseFormat.Type != "json_object" {
			t.Fatalf("json mode not requested")
		}
		return jsonResponse(http.StatusOK, map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": `{"strategy":"match_offer"}`}}},
		}), nil
	})

	out, err := c.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != `{"strategy":"match_offer"}` {
		t.Fatalf("content=%q", out)
	}
}

func TestCompleteSurfacesHTTPError(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{
			StatusCode: http.StatusServiceUnavailable,
			Body:       io.NopCloser(strings.NewReader("overloaded")),
		}, nil
	})

	_, err := c.Complete(context.Background(), "sys", "user")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("want HTTPError 503, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("advisory calls are never retried: calls=%d", calls)
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, map[string]any{"choices": []any{}}), nil
	})
	if _, err := c.Complete(context.Background(), "sys", "user"); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestCompleteHonoursContextDeadline(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Complete(ctx, "sys", "user")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
}

func TestNewClientValidatesConfig(t *testing.T) {
	if _, err := NewClient(Config{Model: "m"}, logger.NewNop()); err == nil {
		t.Fatalf("missing base url: expected error")
	}
	if _, err := NewClient(Config{BaseURL: "http://x"}, logger.NewNop()); err == nil {
		t.Fatalf("missing model: expected error")
	}
}

type countingCompleter struct{ calls int }

func (c *countingCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	c.calls++
	return "ok", nil
}

func TestLimitedRefusesBeyondBurst(t *testing.T) {
	next := &countingCompleter{}
	l := NewLimited(next, 0.001, 2)

	for i := 0; i < 2; i++ {
		if _, err := l.Complete(context.Background(), "s", "u"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if _, err := l.Complete(context.Background(), "s", "u"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("third call: want ErrRateLimited got %v", err)
	}
	if next.calls != 2 {
		t.Fatalf("refused calls must not reach upstream: calls=%d", next.calls)
	}

	unlimited := NewLimited(next, 0, 0)
	for i := 0; i < 10; i++ {
		if _, err := unlimited.Complete(context.Background(), "s", "u"); err != nil {
			t.Fatalf("unlimited call %d: %v", i, err)
		}
	}
}
