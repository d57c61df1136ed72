package protocol

import (
	"strings"
)

// Registry 按注册顺序匹配链接前缀，并分派给对应的解析器。
type Registry struct {
	parsers []Parser
}

// NewRegistry creates a registry preloaded with parsers, matched in the
// order given.
func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{}
	for _, parser := range parsers {
		r.Register(parser)
	}
	return r
}

// DefaultRegistry returns the vmess, vless, trojan registry.
func DefaultRegistry() *Registry {
	return NewRegistry(NewVMessParser(), NewVLESSParser(), NewTrojanParser())
}

// Register appends a parser; parsers with an empty prefix are ignored.
func (r *Registry) Register(parser Parser) {
	if parser == nil || parser.Prefix() == "" {
		return
	}
	r.parsers = append(r.parsers, parser)
}

// Types lists the protocols the registry understands, in match order.
func (r *Registry) Types() []Type {
	types := make([]Type, 0, len(r.parsers))
	for _, parser := range r.parsers {
		types = append(types, parser.Type())
	}
	return types
}

// Detect returns the parser whose prefix matches line, or nil.
func (r *Registry) Detect(line string) Parser {
	for _, parser := range r.parsers {
		if strings.HasPrefix(line, parser.Prefix()) {
			return parser
		}
	}
	return nil
}

// Parse dispatches one trimmed line. Lines matching no prefix fail with
// ErrUnsupportedProtocol without reaching any parser.
func (r *Registry) Parse(line string) (*Proxy, error) {
	parser := r.Detect(line)
	if parser == nil {
		return nil, newParseError(ErrUnsupportedProtocol, "", unsupportedProtocolMessage)
	}
	return parser.Parse(line)
}
