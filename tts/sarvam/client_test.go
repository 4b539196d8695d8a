package sarvam

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/vaani-ai/vaani/core"
	"github.com/vaani-ai/vaani/tts"
)

type roundTrip func(*http.Request) (*http.Response, error)

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req)
}

func TestSynthesize(t *testing.T) {
	wav := []byte("RIFF-fake-wav")
	var captured synthesisRequest
	transport := roundTrip(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/text-to-speech" {
			t.Fatalf("path = %q", req.URL.Path)
		}
		body, _ := io.ReadAll(req.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}
		buf, _ := json.Marshal(map[string]any{
			"request_id": "r1",
			"audios":     []string{base64.StdEncoding.EncodeToString(wav)},
		})
		return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewReader(buf))}, nil
	})

	client := New(WithAPIKey("key"), WithHTTPClient(&http.Client{Transport: transport}))
	audio, err := client.Synthesize(context.Background(), "வணக்கம்", tts.Options{
		Voice:        "kavitha",
		LanguageCode: "ta-IN",
	})
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	if !bytes.Equal(audio.Data, wav) {
		t.Fatalf("audio data = %q", audio.Data)
	}
	if audio.Provider != "sarvam" || audio.SampleRate != 22050 {
		t.Fatalf("audio = %+v", audio)
	}

	if captured.Model != "bulbul:v3" || captured.Speaker != "kavitha" {
		t.Fatalf("request = %+v", captured)
	}
	if captured.TargetLanguageCode != "ta-IN" || captured.Pace != 1.0 {
		t.Fatalf("request = %+v", captured)
	}
	if len(captured.Inputs) != 1 || captured.Inputs[0] != "வணக்கம்" {
		t.Fatalf("inputs = %v", captured.Inputs)
	}
	if !captured.EnablePreprocessing {
		t.Fatal("preprocessing flag missing")
	}
}

func TestSynthesizeErrors(t *testing.T) {
	client := New()
	if _, err := client.Synthesize(context.Background(), "hi", tts.Options{}); !core.IsNotConfigured(err) {
		t.Fatalf("want not-configured error, got %v", err)
	}

	client = New(WithAPIKey("key"))
	if _, err := client.Synthesize(context.Background(), "   ", tts.Options{}); !core.IsBadRequest(err) {
		t.Fatalf("want bad-request error for empty text, got %v", err)
	}

	transport := roundTrip(func(req *http.Request) (*http.Response, error) {
		buf, _ := json.Marshal(map[string]any{"audios": []string{}})
		return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewReader(buf))}, nil
	})
	client = New(WithAPIKey("key"), WithHTTPClient(&http.Client{Transport: transport}))
	if _, err := client.Synthesize(context.Background(), "hello", tts.Options{}); err == nil {
		t.Fatal("want error for empty audios")
	}
}
