package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/vaani-ai/vaani/core"
)

type roundTrip func(*http.Request) (*http.Response, error)

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req)
}

func jsonResponse(status int, body any) *http.Response {
	buf, _ := json.Marshal(body)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(buf)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestGenerate(t *testing.T) {
	var captured chatRequest
	transport := roundTrip(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/v1/chat/completions" {
			t.Fatalf("path = %q", req.URL.Path)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer key" {
			t.Fatalf("auth = %q", got)
		}
		body, _ := io.ReadAll(req.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}
		return jsonResponse(200, map[string]any{
			"model": "test-model",
			"choices": []map[string]any{{
				"message":       map[string]any{"role": "assistant", "content": " Hello there. "},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16},
		}), nil
	})

	client := New(
		WithAPIKey("key"),
		WithBaseURL("https://api.example.com/v1"),
		WithModel("test-model"),
		WithHTTPClient(&http.Client{Transport: transport}),
	)

	result, err := client.Generate(context.Background(), core.Request{
		Messages:    []core.Message{core.SystemMessage("be brief"), core.UserMessage("hi")},
		Temperature: 0.9,
		TopP:        0.85,
		MaxTokens:   200,
		Stop:        []string{"\n\n"},
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if result.Text != "Hello there." {
		t.Fatalf("text = %q", result.Text)
	}
	if result.Usage.TotalTokens != 16 {
		t.Fatalf("usage = %+v", result.Usage)
	}

	if captured.Model != "test-model" {
		t.Fatalf("model = %q", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("messages = %v", captured.Messages)
	}
	if captured.Temperature != 0.9 || captured.TopP != 0.85 || captured.MaxTokens != 200 {
		t.Fatalf("sampling params = %v/%v/%v", captured.Temperature, captured.TopP, captured.MaxTokens)
	}
}

func TestGenerateCustomHeaders(t *testing.T) {
	transport := roundTrip(func(req *http.Request) (*http.Response, error) {
		if got := req.Header.Get("HTTP-Referer"); got != "https://example.com" {
			t.Fatalf("referer = %q", got)
		}
		return jsonResponse(200, map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "ok"}}},
		}), nil
	})
	client := New(
		WithAPIKey("key"),
		WithHeader("HTTP-Referer", "https://example.com"),
		WithHTTPClient(&http.Client{Transport: transport}),
	)
	if _, err := client.Generate(context.Background(), core.Request{}); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
}

func TestGenerateErrors(t *testing.T) {
	client := New()
	if _, err := client.Generate(context.Background(), core.Request{}); !core.IsNotConfigured(err) {
		t.Fatalf("want not-configured error, got %v", err)
	}

	cases := []struct {
		status int
		check  func(error) bool
		name   string
	}{
		{429, core.IsRateLimited, "rate limited"},
		{400, core.IsBadRequest, "bad request"},
		{500, core.IsTransient, "transient"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transport := roundTrip(func(req *http.Request) (*http.Response, error) {
				return jsonResponse(tc.status, map[string]any{"error": map[string]any{"message": tc.name}}), nil
			})
			client := New(WithAPIKey("key"), WithHTTPClient(&http.Client{Transport: transport}))
			_, err := client.Generate(context.Background(), core.Request{})
			if err == nil || !tc.check(err) {
				t.Fatalf("status %d: got %v", tc.status, err)
			}
		})
	}
}

func TestGenerateNoChoices(t *testing.T) {
	transport := roundTrip(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, map[string]any{"choices": []any{}}), nil
	})
	client := New(WithAPIKey("key"), WithHTTPClient(&http.Client{Transport: transport}))
	if _, err := client.Generate(context.Background(), core.Request{}); err == nil {
		t.Fatal("want error for empty choices")
	}
}
