package sarvam

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/vaani-ai/vaani/language"
	"github.com/vaani-ai/vaani/stt"
)

type roundTrip func(*http.Request) (*http.Response, error)

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req)
}

func TestTranscribe(t *testing.T) {
	transport := roundTrip(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/speech-to-text" {
			t.Fatalf("path = %q", req.URL.Path)
		}
		if got := req.Header.Get("api-subscription-key"); got != "key" {
			t.Fatalf("subscription key header = %q", got)
		}
		if err := req.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := req.FormValue("model"); got != "saaras:v3" {
			t.Fatalf("model = %q", got)
		}
		if got := req.FormValue("language_code"); got != "ta-IN" {
			t.Fatalf("language_code = %q", got)
		}
		buf, _ := json.Marshal(map[string]any{
			"request_id":    "r1",
			"transcript":    " வணக்கம் ",
			"language_code": "ta-IN",
		})
		return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewReader(buf))}, nil
	})

	client := New(WithAPIKey("key"), WithHTTPClient(&http.Client{Transport: transport}))
	tr, err := client.Transcribe(context.Background(), []byte("audio"), stt.Options{
		Filename: "turn.wav",
		Language: language.Tamil,
	})
	if err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}
	if tr.Text != "வணக்கம்" {
		t.Fatalf("text = %q", tr.Text)
	}
	if tr.Provider != "sarvam" || tr.Language != "ta-IN" {
		t.Fatalf("transcript = %+v", tr)
	}
}

func TestLanguageCode(t *testing.T) {
	cases := []struct {
		lang language.Language
		want string
	}{
		{language.Tamil, "ta-IN"},
		{language.Tanglish, "ta-IN"},
		{language.English, "en-IN"},
		{language.Unknown, "unknown"},
		{language.Language("other"), "unknown"},
	}
	for _, tc := range cases {
		if got := languageCode(tc.lang); got != tc.want {
			t.Fatalf("languageCode(%s) = %q, want %q", tc.lang, got, tc.want)
		}
	}
}
