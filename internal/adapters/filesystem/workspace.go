// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/secondary"
)

// DocumentVersion is written into exported documents.
const DocumentVersion = 1

// document is the export envelope. Import also accepts a bare workspace
// or a bare list of workspaces.
type document struct {
	Version    int                 `json:"version" yaml:"version"`
	Workspaces []*models.Workspace `json:"workspaces" yaml:"workspaces"`
}

// WorkspaceCodec implements secondary.WorkspaceCodec for YAML and JSON.
type WorkspaceCodec struct{}

// NewWorkspaceCodec creates a new workspace document codec.
func NewWorkspaceCodec() *WorkspaceCodec {
	return &WorkspaceCodec{}
}

// ParseFormat maps a user-supplied format name to a DocumentFormat.
func ParseFormat(name string) (secondary.DocumentFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "yaml", "yml":
		return secondary.FormatYAML, nil
	case "json":
		return secondary.FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want yaml or json)", name)
	}
}

// FormatFromPath picks the format from a file extension, defaulting to YAML.
func FormatFromPath(path string) secondary.DocumentFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return secondary.FormatJSON
	}
	return secondary.FormatYAML
}

// Encode serializes workspaces as a versioned document.
func (c *WorkspaceCodec) Encode(workspaces []*models.Workspace, format secondary.DocumentFormat) ([]byte, error) {
	doc := document{Version: DocumentVersion, Workspaces: workspaces}
	if doc.Workspaces == nil {
		doc.Workspaces = []*models.Workspace{}
	}

	switch format {
	case secondary.FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode workspaces: %w", err)
		}
		return append(data, '\n'), nil
	case secondary.FormatYAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode workspaces: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode workspaces: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// Decode parses a document, a single workspace, or a list of workspaces.
func (c *WorkspaceCodec) Decode(data []byte, format secondary.DocumentFormat) ([]*models.Workspace, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty workspace document")
	}

	var unmarshal func([]byte, any) error
	switch format {
	case secondary.FormatJSON:
		unmarshal = json.Unmarshal
	case secondary.FormatYAML, "":
		unmarshal = yaml.Unmarshal
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	// A JSON or YAML sequence at the top level is a bare list.
	trimmed := bytes.TrimSpace(data)
	if trimmed[0] == '[' || trimmed[0] == '-' {
		var list []*models.Workspace
		if err := unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to decode workspace list: %w", err)
		}
		return list, nil
	}

	var doc document
	if err := unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode workspace document: %w", err)
	}
	if doc.Version > DocumentVersion {
		return nil, fmt.Errorf("workspace document version %d is newer than supported version %d", doc.Version, DocumentVersion)
	}
	if doc.Workspaces != nil {
		return doc.Workspaces, nil
	}

	var single models.Workspace
	if err := unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("failed to decode workspace: %w", err)
	}
	if single.Root == nil {
		return nil, errors.New("document contains no workspaces")
	}
	return []*models.Workspace{&single}, nil
}

// ReadFile reads a workspace document from path, or stdin when path is "-".
func ReadFile(path string) ([]byte, error) {
	if path == "-" {
		data, err := readAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// WriteFile writes a document to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readAll(f *os.File) ([]byte, error) {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(f)
	return buf.Bytes(), err
}

// Ensure WorkspaceCodec implements the interface
var _ secondary.WorkspaceCodec = (*WorkspaceCodec)(nil)
