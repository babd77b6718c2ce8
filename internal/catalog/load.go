package catalog

import (
	"bytes"
	"fmt"
	"os"

	"hrdash/internal/errors"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"gopkg.in/yaml.v3"
)

// Load reads a catalog YAML file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("failed to read catalog %s: %w", path, err))
	}
	return Parse(data)
}

// Parse decodes catalog YAML. Unknown keys are rejected so typos surface early.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("failed to parse catalog YAML: %w", err))
	}
	return &c, nil
}

// Marshal encodes the catalog as YAML
func (c *Catalog) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DescriptionHTML renders the markdown description
func (c *Catalog) DescriptionHTML() string {
	if c.Description == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(c.Description))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return string(markdown.Render(doc, renderer))
}
