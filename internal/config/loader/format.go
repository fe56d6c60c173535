package loader

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format decodes one configuration file syntax into a nested map.
type Format struct {
	Name       string
	Extensions []string
	Decode     func(data []byte) (map[string]any, *ParseError)
}

// TOML is the TOML configuration format.
var TOML = Format{
	Name:       "toml",
	Extensions: []string{".toml"},
	Decode: func(data []byte) (map[string]any, *ParseError) {
		var out map[string]any
		if err := toml.Unmarshal(data, &out); err != nil {
			perr := &ParseError{Message: err.Error(), Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				perr.Line, perr.Column = derr.Position()
			}
			return nil, perr
		}
		return out, nil
	},
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// YAML is the YAML configuration format.
var YAML = Format{
	Name:       "yaml",
	Extensions: []string{".yaml", ".yml"},
	Decode: func(data []byte) (map[string]any, *ParseError) {
		var out map[string]any
		if err := yaml.Unmarshal(data, &out); err != nil {
			perr := &ParseError{Message: err.Error(), Err: err}
			if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
				perr.Line, _ = strconv.Atoi(m[1])
			}
			return nil, perr
		}
		return out, nil
	},
}

var formats = []Format{TOML, YAML}

var _ Loader = (*FileLoader)(nil)

// FileLoader reads one configuration file in a fixed format.
type FileLoader struct {
	fs     FileSystem
	path   string
	format Format
}

// NewFileLoader creates a loader for path in the given format.
func NewFileLoader(fsys FileSystem, path string, format Format) *FileLoader {
	if fsys == nil {
		fsys = DefaultFS()
	}
	return &FileLoader{fs: fsys, path: path, format: format}
}

// Format returns the loader's file format.
func (l *FileLoader) Format() Format {
	return l.format
}

// Load reads the configured path. A missing file yields nil, nil.
func (l *FileLoader) Load() (map[string]any, error) {
	data, err := readFile(l.fs, l.path)
	if err != nil || data == nil {
		return nil, err
	}
	return l.decode(l.path, data)
}

// LoadFromReader decodes configuration read from r.
func (l *FileLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.decode("<reader>", data)
}

func (l *FileLoader) decode(source string, data []byte) (map[string]any, error) {
	out, perr := l.format.Decode(data)
	if perr != nil {
		perr.Path = source
		return nil, perr
	}
	return out, nil
}
