package keymap

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads key bindings from a YAML (or JSON) file.
func LoadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap file: %w", err)
	}
	defer f.Close()

	return LoadReader(f)
}

// LoadReader reads key bindings from a reader. The document is either a
// mapping of key combination to command, or a list of bindings:
//
//	bindings:
//	  - keys: Mod-Shift-l
//	    command: selectWord
func LoadReader(r io.Reader) (map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading keymap: %w", err)
	}

	var list keymapConfig
	if err := yaml.Unmarshal(data, &list); err == nil && len(list.Bindings) > 0 {
		result := make(map[string]string, len(list.Bindings))
		for _, b := range list.Bindings {
			result[b.Keys] = b.Command
		}
		return result, nil
	}

	var flat map[string]string
	if err := yaml.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("decoding keymap: %w", err)
	}
	if flat == nil {
		flat = map[string]string{}
	}
	return flat, nil
}

// keymapConfig is the structure of list-style keymap files.
type keymapConfig struct {
	Bindings []bindingConfig `yaml:"bindings"`
}

type bindingConfig struct {
	Keys    string `yaml:"keys"`
	Command string `yaml:"command"`
}
