package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func completionReply(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"}, zerolog.Nop())
}

func TestExtractReturnsReplyContent(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(completionReply(`{"course":{"name":"OS"}}`)))
	})

	raw, err := c.Extract(context.Background(), "syllabus body text")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if string(raw) != `{"course":{"name":"OS"}}` {
		t.Errorf("raw = %s", raw)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["model"] != "test-model" {
		t.Errorf("model = %v", gotBody["model"])
	}
	if gotBody["temperature"] != float64(0) {
		t.Errorf("temperature = %v, want 0", gotBody["temperature"])
	}
	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want system + user", len(msgs))
	}
	system := msgs[0].(map[string]any)["content"].(string)
	if !strings.Contains(system, "additionalProperties") {
		t.Error("system prompt does not embed the output schema")
	}
	user := msgs[1].(map[string]any)["content"].(string)
	if !strings.Contains(user, "syllabus body text") {
		t.Error("user prompt does not carry the document text")
	}
}

func TestExtractEmptyReply(t *testing.T) {
	for name, body := range map[string]string{
		"no choices":    `{"choices":[]}`,
		"blank content": completionReply("   \n"),
	} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		if _, err := c.Extract(context.Background(), "text"); !errors.Is(err, ErrEmptyReply) {
			t.Errorf("%s: err = %v, want ErrEmptyReply", name, err)
		}
	}
}

func TestExtractMalformedReply(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionReply("Sorry, I cannot parse this document.")))
	})

	_, err := c.Extract(context.Background(), "text")
	var me *MalformedError
	if !errors.As(err, &me) {
		t.Fatalf("err = %v, want *MalformedError", err)
	}
	if !strings.Contains(string(me.Raw), "Sorry") {
		t.Errorf("raw reply not preserved: %q", me.Raw)
	}
}

func TestExtractUpstreamFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	})

	if _, err := c.Extract(context.Background(), "text"); !errors.Is(err, ErrUpstream) {
		t.Errorf("err = %v, want ErrUpstream", err)
	}
}

func TestExtractHonorsContextCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Extract(ctx, "text"); !errors.Is(err, ErrUpstream) {
		t.Errorf("err = %v, want ErrUpstream", err)
	}
}
