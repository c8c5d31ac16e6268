// Package config reads the optional YAML configuration file. Keys are flag
// names; values fill in flags not given on the command line or environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Values maps a flag name to its textual value.
type Values map[string]string

// Load reads path. Nested mappings are flattened with "-", so
//
//	sql:
//	  dialect: mysql
//
// sets the sql-dialect flag. Sequences are joined with ",".
func Load(path string) (Values, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (Values, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	values := Values{}
	if err := flatten(values, "", doc); err != nil {
		return nil, err
	}
	return values, nil
}

func flatten(out Values, prefix string, m map[string]interface{}) error {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "-" + k
		}

		switch t := v.(type) {
		case map[string]interface{}:
			if err := flatten(out, key, t); err != nil {
				return err
			}
		case []interface{}:
			parts := make([]string, 0, len(t))
			for _, item := range t {
				s, err := scalar(key, item)
				if err != nil {
					return err
				}
				parts = append(parts, s)
			}
			out[key] = strings.Join(parts, ",")
		default:
			s, err := scalar(key, t)
			if err != nil {
				return err
			}
			out[key] = s
		}
	}
	return nil
}

func scalar(key string, v interface{}) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("config key %q: unsupported value %v", key, v)
	}
}
