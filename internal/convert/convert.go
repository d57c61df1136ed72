// Package convert turns a block of share links into a Clash proxies
// document, one outcome per line.
package convert

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/creamcroissant/subconv/internal/document"
	"github.com/creamcroissant/subconv/internal/protocol"
)

// Options configures a Converter.
type Options struct {
	// Registry dispatches lines to parsers. Nil means the default
	// vmess/vless/trojan registry.
	Registry *protocol.Registry
	// Parallelism bounds the number of lines parsed concurrently. Values
	// below 2 parse sequentially.
	Parallelism int
}

// Converter runs the split, parse, aggregate and render pipeline. It holds
// no per-batch state and is safe for concurrent use.
type Converter struct {
	registry    *protocol.Registry
	parallelism int
}

// New builds a Converter.
func New(opts Options) *Converter {
	registry := opts.Registry
	if registry == nil {
		registry = protocol.DefaultRegistry()
	}
	return &Converter{
		registry:    registry,
		parallelism: opts.Parallelism,
	}
}

var defaultConverter = New(Options{})

// Convert runs text through a sequential Converter with the default
// registry.
func Convert(text string) (*Report, error) {
	return defaultConverter.Convert(text)
}

// Convert parses every non-blank line of text and renders the successful
// ones. Per-line failures are recorded in the report; the returned error
// is only set when rendering itself fails.
func (c *Converter) Convert(text string) (*Report, error) {
	lines := SplitLines(text)
	report := &Report{Outcomes: c.parseAll(lines)}

	doc, err := document.Render(report.Proxies())
	if err != nil {
		return report, fmt.Errorf("render document: %w", err)
	}
	report.Document = doc
	return report, nil
}

func (c *Converter) parseAll(lines []string) []Outcome {
	outcomes := make([]Outcome, len(lines))
	if c.parallelism < 2 || len(lines) < 2 {
		for i, line := range lines {
			outcomes[i] = c.parseLine(line)
		}
		return outcomes
	}

	// 每个协程只写自己的下标，结果顺序与输入一致。
	var g errgroup.Group
	g.SetLimit(c.parallelism)
	for i, line := range lines {
		g.Go(func() error {
			outcomes[i] = c.parseLine(line)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (c *Converter) parseLine(line string) Outcome {
	proxy, err := c.registry.Parse(line)
	if err != nil {
		return Outcome{Original: line, Err: err}
	}
	return Outcome{Original: line, Proxy: proxy}
}
