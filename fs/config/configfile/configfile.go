// Package configfile loads flag defaults from a YAML config file
package configfile

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/moonfall/devserve/fs"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path and applies every key to the flag
// of the same name in flagSet.
//
// Keys may use "-" or "_" as separators. Flags which were set on the
// command line or from the environment are left alone, so the order
// of precedence is command line, environment, config file, default.
func Load(path string, flagSet *pflag.FlagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return apply(path, data, flagSet)
}

func apply(path string, data []byte, flagSet *pflag.FlagSet) error {
	var values map[string]interface{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	// apply in a stable order so errors are reproducible
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		name := strings.Replace(key, "_", "-", -1)
		flag := flagSet.Lookup(name)
		if flag == nil {
			return fmt.Errorf("unknown option %q in config file %q", key, path)
		}
		if flag.Changed {
			fs.Debugf(nil, "Ignoring %q from config file as --%s was set on the command line", key, name)
			continue
		}
		if _, found := os.LookupEnv(fs.OptionToEnv(name)); found {
			fs.Debugf(nil, "Ignoring %q from config file as %s is set", key, fs.OptionToEnv(name))
			continue
		}
		for _, value := range toStrings(values[key]) {
			if err := flag.Value.Set(value); err != nil {
				return fmt.Errorf("invalid value %q for %q in config file %q: %w", value, key, path, err)
			}
		}
		fs.Debugf(nil, "Set --%s %q from config file", name, flag.Value)
	}
	return nil
}

// toStrings turns a decoded YAML value into the strings to pass to
// pflag.Value.Set
func toStrings(value interface{}) []string {
	switch x := value.(type) {
	case nil:
		return nil
	case []interface{}:
		out := make([]string, 0, len(x))
		for _, item := range x {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(x)}
	}
}
