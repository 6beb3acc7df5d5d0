package resolve

import (
	"fmt"
	"plugin"
)

// GetResponseSymbol is the symbol a response module plugin must export.
const GetResponseSymbol = "GetResponse"

// LoadPlugin opens a compiled response module (a Go plugin built with
// -buildmode=plugin) and validates its contract: an exported
//
//	func GetResponse(headers map[string]string, body map[string]any) (string, error)
//
// A module that does not satisfy the contract is a startup error; once
// loaded, runtime failures of the function are surfaced per request and
// the module stays loaded.
func LoadPlugin(path string) (*FuncResolver, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("response module %s: %w", path, err)
	}
	sym, err := p.Lookup(GetResponseSymbol)
	if err != nil {
		return nil, fmt.Errorf("response module %s: must export %s(headers, body): %w", path, GetResponseSymbol, err)
	}
	fn, ok := sym.(func(map[string]string, map[string]any) (string, error))
	if !ok {
		return nil, fmt.Errorf(
			"response module %s: %s must be func(map[string]string, map[string]any) (string, error), got %T",
			path, GetResponseSymbol, sym,
		)
	}
	return &FuncResolver{fn: fn, origin: path}, nil
}

// ValidatePlugin checks a response module without keeping it loaded for
// serving. Backs the `validate` CLI command.
func ValidatePlugin(path string) error {
	_, err := LoadPlugin(path)
	return err
}
