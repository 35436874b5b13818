// Package configutil wraps configuration document parsing to isolate the
// external dependency. Documents may be JSON or YAML; the underlying
// parser accepts both since YAML is a JSON superset.
package configutil

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits config input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("configutil: nil or empty data")
	ErrNilDestination = errors.New("configutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("configutil: input exceeds maximum size")
	ErrNotFound       = errors.New("configutil: config file not found")
	ErrParse          = errors.New("configutil: failed to parse config")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	return nil
}

// LoadFile reads and parses a JSON or YAML config document into v.
func LoadFile(path string, v any) error {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrNotFound, path)
		}
		return fmt.Errorf("reading config %q: %w", path, err)
	}
	return Unmarshal(data, v)
}

// MergeInto copies every key of overlay into base, overriding existing
// keys. Used to layer a config file over built-in defaults.
func MergeInto(base, overlay map[string]any) {
	for k, v := range overlay {
		base[k] = v
	}
}
