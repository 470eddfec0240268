package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/kdn/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration files.
//
// Nested mappings are flattened into hyphenated flag names, so
//
//	log:
//	  level: debug
//	max_depth: 64
//
// sets --log-level=debug and --max-depth=64. Underscores in keys are read as
// hyphens. Command-line flags override configuration values.
//
// An empty file yields no values. A file that is not valid YAML is reported
// and ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		if err != nil {
			log.WarnContext(ctx, "ignoring invalid configuration file",
				slog.Any("error", err))

			return config{}, nil
		}

		cfg := make(config)
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] with values keyed by flag name.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. A nil value leaves the flag's default
// in place.
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	return c[flag.Name], nil
}

func (c config) flatten(prefix string, doc map[string]any) {
	for key, value := range doc {
		name := prefix + strings.ReplaceAll(key, "_", "-")

		switch v := value.(type) {
		case map[string]any:
			c.flatten(name+"-", v)
		case nil:
		default:
			c[name] = flagValue(v)
		}
	}
}

// flagValue converts a decoded YAML value into a form kong's mappers accept.
// Numbers become strings, and lists become comma-separated strings with
// embedded commas escaped.
func flagValue(v any) any {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		list := make([]string, len(v))
		for i, item := range v {
			list[i] = strings.ReplaceAll(fmt.Sprint(flagValue(item)), ",", `\,`)
		}

		return strings.Join(list, ",")
	}

	return v
}
