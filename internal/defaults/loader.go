package defaults

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/layered-configs/internal/properties"
)

// ErrUnsupportedFormat is returned for files whose extension has no decoder.
var ErrUnsupportedFormat = errors.New("unsupported defaults file format")

// Loader reads defaults files. A nil Logger discards warnings.
type Loader struct {
	Logger *zap.Logger
}

// Load merges the given files in order, later files overriding earlier ones.
// Entries that are not flat scalars are skipped with a warning.
func (l Loader) Load(paths ...string) (properties.Values, error) {
	out := properties.Values{}
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		values, err := l.loadFile(path)
		if err != nil {
			return nil, err
		}
		for key, value := range values {
			out[key] = value
		}
	}
	return out, nil
}

func (l Loader) loadFile(path string) (properties.Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read defaults %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		return l.decodeYAML(path, data)
	case ".env":
		return decodeDotenv(path, data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func (l Loader) decodeYAML(path string, data []byte) (properties.Values, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse defaults %s: %w", path, err)
	}

	out := make(properties.Values, len(raw))
	for key, value := range raw {
		if value == nil {
			continue
		}
		if !properties.IsScalar(value) {
			l.logger().Warn("skipping non-scalar default",
				zap.String("file", path),
				zap.String("key", key),
				zap.String("type", fmt.Sprintf("%T", value)),
			)
			continue
		}
		out[key] = value
	}
	return out, nil
}

func decodeDotenv(path string, data []byte) (properties.Values, error) {
	raw, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse defaults %s: %w", path, err)
	}

	out := make(properties.Values, len(raw))
	for key, value := range raw {
		out[key] = properties.ParseScalar(value)
	}
	return out, nil
}

func (l Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

// FromEnviron collects entries of environ ("NAME=value" pairs, as returned by
// os.Environ) that start with prefix. The prefix is stripped and the rest of
// the name lowercased to form the key; values go through ParseScalar. An
// empty prefix yields no values.
func FromEnviron(prefix string, environ []string) properties.Values {
	out := properties.Values{}
	if prefix == "" {
		return out
	}
	for _, entry := range environ {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, prefix))
		if key == "" {
			continue
		}
		out[key] = properties.ParseScalar(value)
	}
	return out
}
