// Package document renders normalized proxies as Clash (mihomo) YAML.
package document

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/creamcroissant/subconv/internal/protocol"
)

// ContentType is the media type of rendered documents.
const ContentType = "text/yaml; charset=utf-8"

const indent = 2

// Render wraps the proxies under a single "proxies" key. An empty slice
// renders as "" rather than an empty list, so callers can tell "nothing to
// render" apart from a rendered document.
//
// yaml.v3 never emits anchors or aliases for Go values: equal proxies are
// written out as independent entries.
func Render(proxies []protocol.Proxy) (string, error) {
	if len(proxies) == 0 {
		return "", nil
	}
	records, err := records(proxies)
	if err != nil {
		return "", err
	}
	doc := struct {
		Proxies []any `yaml:"proxies"`
	}{Proxies: records}
	return encode(doc)
}

func records(proxies []protocol.Proxy) ([]any, error) {
	out := make([]any, 0, len(proxies))
	for i := range proxies {
		rec, err := Record(proxies[i])
		if err != nil {
			return nil, fmt.Errorf("render proxy %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func encode(value any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(value); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	return buf.String(), nil
}
