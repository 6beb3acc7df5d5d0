package config

import (
	"strings"
	"testing"
)

func TestParseValidConfig(t *testing.T) {
	raw := []byte(`
responses:
  "  What Colour is the Sky? ": "The sky is purple except on Tuesday when it is hue green."
  hello: hi there
defaults:
  unknown_response: "no idea"
settings:
  lag_enabled: true
  lag_factor: 2.5
`)
	snap, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// Keys are normalized at load time: trimmed and lower-cased.
	if got := snap.Responses["what colour is the sky?"]; got != "The sky is purple except on Tuesday when it is hue green." {
		t.Fatalf("normalized key lookup failed, got %q", got)
	}
	if got := snap.Responses["hello"]; got != "hi there" {
		t.Fatalf("plain key lookup failed, got %q", got)
	}
	if snap.UnknownResponse != "no idea" {
		t.Fatalf("unknown_response not applied: %q", snap.UnknownResponse)
	}
	if !snap.LagEnabled || snap.LagFactor != 2.5 {
		t.Fatalf("settings not applied: %+v", snap)
	}
}

func TestParseDefaults(t *testing.T) {
	snap, err := Parse([]byte("responses: {}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if snap.UnknownResponse != DefaultUnknownResponse {
		t.Fatalf("expected default unknown response, got %q", snap.UnknownResponse)
	}
	if snap.LagEnabled || snap.LagFactor != 10 {
		t.Fatalf("expected lag off with factor 10: %+v", snap)
	}
}

func TestParseMissingResponses(t *testing.T) {
	_, err := Parse([]byte("defaults:\n  unknown_response: x\n"))
	if err == nil || !strings.Contains(err.Error(), "responses") {
		t.Fatalf("expected error naming responses, got %v", err)
	}
}

func TestParseResponsesWrongType(t *testing.T) {
	_, err := Parse([]byte("responses:\n  - a\n  - b\n"))
	if err == nil || !strings.Contains(err.Error(), "responses") {
		t.Fatalf("expected error naming responses, got %v", err)
	}
}

func TestParseLagFactorNotNumeric(t *testing.T) {
	_, err := Parse([]byte("responses: {}\nsettings:\n  lag_factor: fast\n"))
	if err == nil || !strings.Contains(err.Error(), "lag_factor") {
		t.Fatalf("expected error naming lag_factor, got %v", err)
	}
}

func TestParseLagFactorNotPositive(t *testing.T) {
	for _, doc := range []string{
		"responses: {}\nsettings:\n  lag_factor: 0\n",
		"responses: {}\nsettings:\n  lag_factor: -3\n",
	} {
		if _, err := Parse([]byte(doc)); err == nil || !strings.Contains(err.Error(), "positive") {
			t.Fatalf("expected positivity error for %q, got %v", doc, err)
		}
	}
}

func TestParseMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("responses: {\n")); err == nil {
		t.Fatal("expected yaml syntax error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("does-not-exist.yml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNormalizePrompt(t *testing.T) {
	if got := NormalizePrompt("  What COLOUR is the sky?\n"); got != "what colour is the sky?" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}
