package tabby

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/tabbyspaces/internal/core/projection"
	"github.com/example/tabbyspaces/internal/core/workspace"
	"github.com/example/tabbyspaces/internal/ports/secondary"
)

// Markers delimiting the generated block inside appearance.css.
const (
	cssBegin = "/* tabbyspaces:begin */"
	cssEnd   = "/* tabbyspaces:end */"
)

// SyncProfiles removes every profile whose id carries the TabbySpaces prefix
// and appends profiles in order. The document is edited as a yaml.Node tree
// so foreign keys, ordering and comments survive.
func (s *ConfigStore) SyncProfiles(ctx context.Context, profiles []*projection.SplitLayoutProfile) (*secondary.ProfileSyncResult, error) {
	doc, err := s.loadDocument()
	if err != nil {
		return nil, err
	}
	root := doc.Content[0]

	seq := mappingValue(root, "profiles")
	if seq == nil || seq.Kind != yaml.SequenceNode {
		fresh := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		setMappingValue(root, "profiles", fresh)
		seq = fresh
	}

	result := &secondary.ProfileSyncResult{Path: s.path}
	kept := seq.Content[:0]
	for _, item := range seq.Content {
		if item.Kind == yaml.MappingNode {
			if id := mappingValue(item, "id"); id != nil && workspace.IsOwnProfileID(id.Value) {
				result.Removed++
				continue
			}
		}
		kept = append(kept, item)
	}
	seq.Content = kept

	for _, p := range profiles {
		node := &yaml.Node{}
		if err := node.Encode(p); err != nil {
			return nil, fmt.Errorf("failed to encode profile %s: %w", p.ID, err)
		}
		seq.Content = append(seq.Content, node)
		result.Added++
	}

	if err := s.writeDocument(doc); err != nil {
		return nil, err
	}
	s.Invalidate()
	s.logger.Info("synced split-layout profiles", "path", s.path, "removed", result.Removed, "added", result.Added)
	return result, nil
}

// SyncBackgrounds replaces the generated block in appearance.css with css.
// An empty css removes the block.
func (s *ConfigStore) SyncBackgrounds(ctx context.Context, css string) error {
	doc, err := s.loadDocument()
	if err != nil {
		return err
	}
	root := doc.Content[0]

	appearance := mappingValue(root, "appearance")
	if appearance == nil || appearance.Kind != yaml.MappingNode {
		if strings.TrimSpace(css) == "" {
			return nil
		}
		appearance = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		setMappingValue(root, "appearance", appearance)
	}

	current := ""
	if node := mappingValue(appearance, "css"); node != nil {
		current = node.Value
	}
	next := replaceCSSBlock(current, css)
	if next == current {
		return nil
	}

	value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: next}
	if strings.Contains(next, "\n") {
		value.Style = yaml.LiteralStyle
	}
	setMappingValue(appearance, "css", value)

	if err := s.writeDocument(doc); err != nil {
		return err
	}
	s.logger.Info("synced workspace backgrounds", "path", s.path)
	return nil
}

func replaceCSSBlock(current, block string) string {
	if start := strings.Index(current, cssBegin); start >= 0 {
		if end := strings.Index(current[start:], cssEnd); end >= 0 {
			head := strings.TrimRight(current[:start], "\n")
			tail := strings.TrimLeft(current[start+end+len(cssEnd):], "\n")
			switch {
			case head == "":
				current = tail
			case tail == "":
				current = head + "\n"
			default:
				current = head + "\n" + tail
			}
		}
	}
	if strings.TrimSpace(block) == "" {
		return current
	}
	var b strings.Builder
	if current != "" {
		b.WriteString(strings.TrimRight(current, "\n"))
		b.WriteString("\n")
	}
	b.WriteString(cssBegin + "\n")
	b.WriteString(strings.TrimRight(block, "\n"))
	b.WriteString("\n" + cssEnd + "\n")
	return b.String()
}

func (s *ConfigStore) loadDocument() (*yaml.Node, error) {
	data, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read tabby config: %w", err)
	}

	doc := &yaml.Node{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("failed to parse tabby config %s: %w", s.path, err)
		}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		doc = &yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	}
	if doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("tabby config %s: top level is not a mapping", s.path)
	}
	return doc, nil
}

// writeDocument writes through a temp file and rename so Tabby never sees
// a half-written config.
func (s *ConfigStore) writeDocument(doc *yaml.Node) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode tabby config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode tabby config: %w", err)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create tabby config dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write tabby config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write tabby config: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write tabby config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write tabby config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace tabby config: %w", err)
	}
	return nil
}

// mappingValue returns the value node for key in a mapping node, or nil.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func setMappingValue(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}
