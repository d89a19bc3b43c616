package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata is an ordered mapping from keys to scalar values.
// Keys are never duplicated. The zero value is an empty mapping ready to use.
type Metadata struct {
	keys   []string
	values map[string]Value
}

// NewMetadata creates a metadata from key/value pairs (ex: "echo", Bool(false), "fig.width", Int(7)).
func NewMetadata(pairs ...any) Metadata {
	if len(pairs)%2 != 0 {
		panic("NewMetadata expects an even number of arguments")
	}
	var m Metadata
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("NewMetadata expects string keys, got %T", pairs[i]))
		}
		m.Set(key, MustValueOf(pairs[i+1]))
	}
	return m
}

// Set assigns a value. A new key is appended. An existing key keeps its position
// but its value is replaced (last write wins).
func (m *Metadata) Set(key string, value Value) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value associated with a key.
func (m Metadata) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m Metadata) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Delete removes a key. Nothing happens if the key is missing.
func (m *Metadata) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m Metadata) Keys() []string {
	result := make([]string, len(m.keys))
	copy(result, m.keys)
	return result
}

func (m Metadata) Len() int {
	return len(m.keys)
}

func (m Metadata) IsEmpty() bool {
	return len(m.keys) == 0
}

// Clone returns an independent copy.
func (m Metadata) Clone() Metadata {
	var result Metadata
	for _, key := range m.keys {
		result.Set(key, m.values[key])
	}
	return result
}

// Merge copies all keys from other. Existing keys are overwritten.
// The keys defined on both sides with different values are returned.
func (m *Metadata) Merge(other Metadata) (conflicts []string) {
	for _, key := range other.keys {
		value := other.values[key]
		if existing, ok := m.Get(key); ok && !existing.Equal(value) {
			conflicts = append(conflicts, key)
		}
		m.Set(key, value)
	}
	return conflicts
}

// Equal compares two metadata including the order of keys.
func (m Metadata) Equal(other Metadata) bool {
	if len(m.keys) != len(other.keys) {
		return false
	}
	for i, key := range m.keys {
		if other.keys[i] != key {
			return false
		}
		if !m.values[key].Equal(other.values[key]) {
			return false
		}
	}
	return true
}

// AsMap returns the metadata as plain Go values.
func (m Metadata) AsMap() map[string]any {
	result := make(map[string]any, len(m.keys))
	for _, key := range m.keys {
		result[key] = m.values[key].Interface()
	}
	return result
}

// MetadataFromMap converts a decoded YAML/JSON object. Keys are sorted
// as the source order is unknown.
func MetadataFromMap(raw map[string]any) (Metadata, error) {
	var result Metadata
	for _, key := range sortedKeys(raw) {
		value, err := ValueOf(raw[key])
		if err != nil {
			return Metadata{}, fmt.Errorf("invalid metadata %q: %w", key, err)
		}
		result.Set(key, value)
	}
	return result, nil
}

func (m Metadata) String() string {
	var parts []string
	for _, key := range m.keys {
		parts = append(parts, fmt.Sprintf("%s=%s", key, m.values[key]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteRune('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteRune(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteRune(':')
		valueJSON, err := m.values[key].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("invalid metadata %q: %w", key, err)
		}
		buf.Write(valueJSON)
	}
	buf.WriteRune('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON preserves the order of keys as present in the JSON object.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if token == nil { // null
		*m = Metadata{}
		return nil
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("metadata must be a JSON object, got %v", token)
	}

	var result Metadata
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return err
		}
		key, ok := keyToken.(string)
		if !ok {
			return fmt.Errorf("unexpected metadata key %v", keyToken)
		}
		var raw any
		if err := decoder.Decode(&raw); err != nil {
			return err
		}
		value, err := ValueOf(raw)
		if err != nil {
			return fmt.Errorf("invalid metadata %q: %w", key, err)
		}
		result.Set(key, value)
	}
	if _, err := decoder.Token(); err != nil && err != io.EOF { // closing }
		return err
	}
	*m = result
	return nil
}

// MarshalYAML outputs a mapping node respecting the order of keys.
func (m Metadata) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range m.keys {
		valueNode, err := yamlScalar(m.values[key])
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			valueNode)
	}
	return node, nil
}

func yamlScalar(value Value) (*yaml.Node, error) {
	if value.Kind() == KindFloat {
		// Floats must keep a decimal point to not be read back as integers
		f := value.AsFloat()
		switch {
		case math.IsNaN(f):
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: ".nan"}, nil
		case math.IsInf(f, 1):
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: ".inf"}, nil
		case math.IsInf(f, -1):
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: "-.inf"}, nil
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: FormatFloat(f)}, nil
	}
	var node yaml.Node
	if err := node.Encode(value.Interface()); err != nil {
		return nil, err
	}
	return &node, nil
}

// UnmarshalYAML preserves the order of keys as present in the YAML document.
func (m *Metadata) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: metadata must be a YAML mapping", node.Line)
	}
	var result Metadata
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		var raw any
		if err := node.Content[i+1].Decode(&raw); err != nil {
			return err
		}
		value, err := ValueOf(raw)
		if err != nil {
			return fmt.Errorf("line %d: invalid metadata %q: %w", node.Content[i].Line, key, err)
		}
		result.Set(key, value)
	}
	*m = result
	return nil
}
