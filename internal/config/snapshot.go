package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultUnknownResponse is served when no prompt matches and the config
// file does not override defaults.unknown_response.
const DefaultUnknownResponse = "I don't know the answer to that. This is a mock response."

const defaultLagFactor = 10

// Snapshot is one immutable, fully-validated response configuration.
// Snapshots are replaced wholesale on reload and never mutated; response
// keys are normalized (trimmed, lower-cased) at load time so lookups are
// case-insensitive.
type Snapshot struct {
	Responses       map[string]string
	UnknownResponse string
	LagEnabled      bool
	LagFactor       float64
}

// DefaultSnapshot returns an empty table with lag disabled. Used when the
// server runs without a config file (module mode, or no file given).
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		Responses:       map[string]string{},
		UnknownResponse: DefaultUnknownResponse,
		LagFactor:       defaultLagFactor,
	}
}

// NormalizePrompt produces the canonical lookup key for a prompt:
// surrounding whitespace is trimmed and the string is lower-cased.
func NormalizePrompt(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// document mirrors the YAML layout. Responses and lag_factor are decoded
// through yaml.Node so type violations can be reported by field.
type document struct {
	Responses yaml.Node `yaml:"responses"`
	Defaults  struct {
		UnknownResponse string `yaml:"unknown_response"`
	} `yaml:"defaults"`
	Settings struct {
		LagEnabled bool      `yaml:"lag_enabled"`
		LagFactor  yaml.Node `yaml:"lag_factor"`
	} `yaml:"settings"`
}

// Load reads and validates a response config file.
func Load(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	snap, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return snap, nil
}

// Parse validates a YAML response config document.
func Parse(raw []byte) (*Snapshot, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	if doc.Responses.IsZero() {
		return nil, errors.New(`missing required "responses" section`)
	}
	var table map[string]string
	if err := doc.Responses.Decode(&table); err != nil {
		return nil, fmt.Errorf(`"responses" must map prompt strings to reply strings: %w`, err)
	}

	snap := &Snapshot{
		Responses:       make(map[string]string, len(table)),
		UnknownResponse: DefaultUnknownResponse,
		LagEnabled:      doc.Settings.LagEnabled,
		LagFactor:       defaultLagFactor,
	}
	for prompt, reply := range table {
		snap.Responses[NormalizePrompt(prompt)] = reply
	}
	if doc.Defaults.UnknownResponse != "" {
		snap.UnknownResponse = doc.Defaults.UnknownResponse
	}
	if !doc.Settings.LagFactor.IsZero() {
		var f float64
		if err := doc.Settings.LagFactor.Decode(&f); err != nil {
			return nil, fmt.Errorf(`"settings.lag_factor" must be a number: %w`, err)
		}
		if f <= 0 {
			return nil, fmt.Errorf(`"settings.lag_factor" must be positive, got %v`, f)
		}
		snap.LagFactor = f
	}

	return snap, nil
}
