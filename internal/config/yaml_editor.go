package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EditableKeys lists the dotted keys YAMLEditor.Set accepts, with the scalar
// kind each one holds.
var EditableKeys = map[string]string{
	"server.port":              "int",
	"log.level":                "str",
	"grid.gap":                 "float",
	"grid.column_width":        "float",
	"grid.default_height":      "float",
	"grid.min_height":          "float",
	"generation.step_interval": "duration",
	"default_template":         "str",
}

// YAMLEditor provides structured editing of the YAML config file using
// the yaml.v3 Node API, preserving comments and formatting.
type YAMLEditor struct {
	path string
}

// NewYAMLEditor creates a new editor for the given config file path.
func NewYAMLEditor(path string) *YAMLEditor {
	return &YAMLEditor{path: path}
}

// Set updates or inserts a scalar setting. The edited document must still
// load as a valid config, otherwise the file is left untouched.
func (e *YAMLEditor) Set(key, value string) error {
	kind, ok := EditableKeys[key]
	if !ok {
		return fmt.Errorf("key '%s' is not editable", key)
	}
	tag, err := scalarTag(kind, value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	doc, root, err := e.load()
	if err != nil {
		return err
	}

	parts := strings.Split(key, ".")
	mapping := root
	for _, section := range parts[:len(parts)-1] {
		next := findMappingKey(mapping, section)
		if next == nil {
			// No such section, create one
			mapping.Content = append(mapping.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: section},
				&yaml.Node{Kind: yaml.MappingNode},
			)
			next = mapping.Content[len(mapping.Content)-1]
		}
		if next.Kind != yaml.MappingNode {
			return fmt.Errorf("'%s' is not a mapping", section)
		}
		mapping = next
	}

	leaf := parts[len(parts)-1]
	if valNode := findMappingKey(mapping, leaf); valNode != nil {
		valNode.Kind = yaml.ScalarNode
		valNode.Value = value
		valNode.Tag = tag
		valNode.Content = nil
		if tag == "" {
			// numbers must stay plain scalars to resolve as numbers
			valNode.Style = 0
		}
	} else {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: leaf},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: tag},
		)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if _, err := LoadFromBytes(data); err != nil {
		return fmt.Errorf("edited config rejected: %w", err)
	}
	return e.save(doc)
}

// Unset removes a setting so its default applies again.
func (e *YAMLEditor) Unset(key string) error {
	if _, ok := EditableKeys[key]; !ok {
		return fmt.Errorf("key '%s' is not editable", key)
	}
	doc, root, err := e.load()
	if err != nil {
		return err
	}

	parts := strings.Split(key, ".")
	mapping := root
	for _, section := range parts[:len(parts)-1] {
		mapping = findMappingKey(mapping, section)
		if mapping == nil {
			return nil
		}
	}
	idx := findMappingKeyIndex(mapping, parts[len(parts)-1])
	if idx < 0 {
		return nil
	}
	mapping.Content = append(mapping.Content[:idx], mapping.Content[idx+2:]...)
	return e.save(doc)
}

func scalarTag(kind, value string) (string, error) {
	switch kind {
	case "int":
		if _, err := strconv.Atoi(value); err != nil {
			return "", fmt.Errorf("want integer, got %q", value)
		}
		return "", nil
	case "float":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return "", fmt.Errorf("want number, got %q", value)
		}
		return "", nil
	case "duration":
		if _, err := time.ParseDuration(value); err != nil {
			return "", fmt.Errorf("want duration, got %q", value)
		}
		return "!!str", nil
	}
	return "!!str", nil
}

func (e *YAMLEditor) load() (*yaml.Node, *yaml.Node, error) {
	data, err := os.ReadFile(e.path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil, fmt.Errorf("invalid YAML document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("root is not a mapping")
	}

	return &doc, root, nil
}

func (e *YAMLEditor) save(doc *yaml.Node) error {
	out, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("opening config for write: %w", err)
	}
	defer out.Close()

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

// findMappingKey finds the value node for a key in a MappingNode.
func findMappingKey(mapping *yaml.Node, key string) *yaml.Node {
	if mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// findMappingKeyIndex returns the index of a key in a MappingNode's Content, or -1.
func findMappingKeyIndex(mapping *yaml.Node, key string) int {
	if mapping.Kind != yaml.MappingNode {
		return -1
	}
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			return i
		}
	}
	return -1
}
