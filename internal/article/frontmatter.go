package article

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var delim = []byte("---")

// EncodeDocument serializes frontmatter and body into one markdown
// document. YAML encoding takes care of quoting, so titles and excerpts
// containing quote characters round-trip unchanged.
func EncodeDocument(meta Meta, body string) ([]byte, error) {
	fm, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(delim)
	buf.WriteByte('\n')
	buf.Write(fm)
	buf.Write(delim)
	buf.WriteString("\n\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// DecodeDocument splits a markdown document into frontmatter and body.
// A document without a leading "---" block is treated as all body with
// empty metadata, so hand-edited files without frontmatter still load.
func DecodeDocument(raw []byte) (Meta, string, error) {
	norm := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))

	open := append(append([]byte{}, delim...), '\n')
	if !bytes.HasPrefix(norm, open) {
		return Meta{}, string(bytes.TrimSpace(norm)), nil
	}

	rest := norm[len(open):]
	parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
	if len(parts) != 2 {
		// Closing delimiter at EOF with no body.
		if bytes.HasSuffix(bytes.TrimRight(rest, "\n"), delim) {
			trimmed := bytes.TrimRight(rest, "\n")
			parts = [][]byte{trimmed[:len(trimmed)-len(delim)], nil}
		} else {
			return Meta{}, "", fmt.Errorf("unterminated frontmatter block")
		}
	}

	var meta Meta
	if err := yaml.Unmarshal(parts[0], &meta); err != nil {
		return Meta{}, "", fmt.Errorf("parse frontmatter: %w", err)
	}
	meta.Normalize()

	body := string(bytes.TrimSpace(parts[1]))
	return meta, body, nil
}
