package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolveYAML is a [kong.ConfigurationLoader] that reads flag values from a
// YAML config file.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolveYAML, "/path/to/config.yaml")
//
// The YAML document is a flat or nested mapping. Nested mappings compose
// flag names with hyphens, so this document:
//
//	log:
//	  level: debug
//	  pretty: true
//
// applies to the flags:
//
//	--log-level=debug
//	--log-pretty=true
//
// Flag names may also be spelled with underscores. Command-line flags
// override config file values.
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any

	if err := yaml.Unmarshal(data, &doc); err != nil {
		// Unparseable config contributes nothing rather than aborting
		// the command.
		return config{}, nil
	}

	flat := make(config)
	flatten(flat, "", doc)

	return flat, nil
}

// config implements [kong.Resolver] for YAML configs flattened to one
// level of hyphen-composed keys.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Accept underscores where flag names use hyphens.
	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// flatten walks nested mappings, composing keys with hyphens and
// normalizing leaf values for kong.
func flatten(out config, prefix string, doc map[string]any) {
	for key, val := range doc {
		name := key
		if prefix != "" {
			name = prefix + "-" + key
		}

		switch v := val.(type) {
		case map[string]any:
			flatten(out, name, v)

		// Kong parses numbers from their string form.
		case int:
			out[name] = strconv.Itoa(v)

		case int64:
			out[name] = strconv.FormatInt(v, 10)

		case uint64:
			out[name] = strconv.FormatUint(v, 10)

		case float64:
			out[name] = strconv.FormatFloat(v, 'f', -1, 64)

		default:
			out[name] = val
		}
	}
}
