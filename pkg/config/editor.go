// Package config edits the flat YAML configuration file that viper reads
// the translator's flags from.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

const AppName = "anger-translator"

type ConfigEditor struct {
	path string
	doc  *yaml.Node
}

// NewConfigEditor loads path. A missing or empty file yields an empty
// configuration that is created on Save.
func NewConfigEditor(path string) (*ConfigEditor, error) {
	log.Debug().Str("path", path).Msg("creating config editor")

	b, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "could not read config file %s", path)
	}

	doc := &yaml.Node{}
	if len(bytes.TrimSpace(b)) > 0 {
		if err := yaml.Unmarshal(b, doc); err != nil {
			return nil, errors.Wrapf(err, "could not parse config file %s", path)
		}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		doc = &yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	}
	if doc.Content[0].Kind != yaml.MappingNode {
		return nil, errors.Errorf("config file %s is not a mapping", path)
	}

	return &ConfigEditor{path: path, doc: doc}, nil
}

func (c *ConfigEditor) root() *yaml.Node {
	return c.doc.Content[0]
}

func (c *ConfigEditor) index(key string) int {
	root := c.root()
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			return i
		}
	}
	return -1
}

func (c *ConfigEditor) Get(key string) (*yaml.Node, error) {
	i := c.index(key)
	if i < 0 {
		return nil, errors.Errorf("key %s not found", key)
	}
	return c.root().Content[i+1], nil
}

// Set stores value as a plain scalar, replacing any previous value.
func (c *ConfigEditor) Set(key string, value string) error {
	if key == "" {
		return errors.New("empty key")
	}
	valueNode := &yaml.Node{Kind: yaml.ScalarNode, Value: value}

	root := c.root()
	if i := c.index(key); i >= 0 {
		root.Content[i+1] = valueNode
		return nil
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		valueNode,
	)
	return nil
}

func (c *ConfigEditor) Delete(key string) error {
	i := c.index(key)
	if i < 0 {
		return errors.Errorf("key %s not found", key)
	}
	root := c.root()
	root.Content = append(root.Content[:i], root.Content[i+2:]...)
	return nil
}

func (c *ConfigEditor) ListKeys() []string {
	root := c.root()
	ret := make([]string, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		ret = append(ret, root.Content[i].Value)
	}
	return ret
}

// GetAll returns all values in file order.
func (c *ConfigEditor) GetAll() *orderedmap.OrderedMap[string, *yaml.Node] {
	ret := orderedmap.New[string, *yaml.Node]()
	root := c.root()
	for i := 0; i+1 < len(root.Content); i += 2 {
		ret.Set(root.Content[i].Value, root.Content[i+1])
	}
	return ret
}

// Save writes the file with owner-only permissions, it usually holds an API
// key.
func (c *ConfigEditor) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return errors.Wrap(err, "could not create config directory")
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c.doc); err != nil {
		return errors.Wrap(err, "could not encode config")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "could not encode config")
	}

	return os.WriteFile(c.path, buf.Bytes(), 0o600)
}

// FormatValue renders scalars as-is and anything else as inline YAML.
func FormatValue(node *yaml.Node) string {
	if node == nil {
		return ""
	}
	if node.Kind == yaml.ScalarNode {
		return node.Value
	}
	b, err := yaml.Marshal(node)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// Redact hides secrets when printing the configuration.
func Redact(key string, value string) string {
	if !strings.Contains(key, "api-key") || value == "" {
		return value
	}
	if len(value) <= 8 {
		return "****"
	}
	return value[:3] + "..." + value[len(value)-4:]
}

func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "could not get home directory")
	}
	return filepath.Join(home, "."+AppName, "config.yaml"), nil
}
