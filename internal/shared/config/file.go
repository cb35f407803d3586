package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "config.yaml"

// loadFile reads a flat YAML mapping of config keys to scalar values.
// Keys are matched case-insensitively against env names, so both
// "database_url" and "DATABASE_URL" work. A missing file yields no values.
func loadFile(path string) map[string]string {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if explicit {
			log.Printf("config file %s: %v", path, err)
		}
		return nil
	}
	values, err := parseFile(data)
	if err != nil {
		log.Printf("config file %s: %v", path, err)
		return nil
	}
	return values
}

func parseFile(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		key := strings.ToUpper(strings.TrimSpace(k))
		switch val := v.(type) {
		case nil:
			continue
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprint(item))
			}
			out[key] = strings.Join(parts, ",")
		case map[string]any:
			return nil, fmt.Errorf("key %q: nested mappings are not supported", k)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
	return out, nil
}
