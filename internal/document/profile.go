package document

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/creamcroissant/subconv/internal/protocol"
)

const defaultProfileName = "Proxy"

// ProfileOptions controls RenderProfile.
type ProfileOptions struct {
	// Name is the select group that receives every converted proxy and the
	// target of the final MATCH rule.
	Name string
	// Template is a raw Clash YAML base profile. When empty TemplatePath is
	// read, and when both are empty a built-in template is used.
	Template     string
	TemplatePath string
}

// RenderProfile renders a complete Clash profile: the base template, the
// converted proxies appended to its proxies, every proxy name merged into
// each proxy group and a terminal MATCH rule. No proxies renders as "".
func RenderProfile(proxies []protocol.Proxy, opts ProfileOptions) (string, error) {
	if len(proxies) == 0 {
		return "", nil
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = defaultProfileName
	}
	config, err := loadTemplate(opts, name)
	if err != nil {
		return "", err
	}

	existing := toAnySlice(config["proxies"])
	// Clash 拒绝重名节点；这里只改 profile 中的名字，Render 的输出保持原样
	proxies = uniqueNames(proxies, existing)
	recs, err := records(proxies)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(proxies))
	for _, p := range proxies {
		names = append(names, p.Name)
	}

	config["proxies"] = append(existing, recs...)
	mergeProxyGroups(config, names, name)
	applyRules(config, name)
	return encode(config)
}

func loadTemplate(opts ProfileOptions, name string) (map[string]any, error) {
	raw := strings.TrimSpace(opts.Template)
	if raw == "" && opts.TemplatePath != "" {
		data, err := os.ReadFile(opts.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("read profile template: %w", err)
		}
		raw = strings.TrimSpace(string(data))
	}
	if raw == "" {
		return defaultTemplate(name), nil
	}
	var cfg map[string]any
	if err := yaml.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("parse profile template: %w", err)
	}
	if cfg == nil {
		cfg = map[string]any{}
	}
	return cfg, nil
}

func defaultTemplate(name string) map[string]any {
	return map[string]any{
		"mixed-port": 7890,
		"allow-lan":  false,
		"mode":       "rule",
		"log-level":  "info",
		"proxies":    []any{},
		"proxy-groups": []any{
			map[string]any{
				"name":    name,
				"type":    "select",
				"proxies": []string{},
			},
		},
		"rules": []string{},
	}
}

// mergeProxyGroups adds the converted names to every group. A group entry
// written as /regex/ (optionally /regex/i) is replaced by the names it
// matches instead. Groups left empty are dropped. The profile group, which
// the MATCH rule targets, always exists afterwards and lists every name.
func mergeProxyGroups(config map[string]any, names []string, profile string) {
	groups := toMapSlice(config["proxy-groups"])
	if len(groups) == 0 {
		groups = []map[string]any{{
			"name":    profile,
			"type":    "select",
			"proxies": []string{},
		}}
	}
	filtered := make([]any, 0, len(groups))
	for _, group := range groups {
		var merged []string
		replaced := false
		for _, entry := range toStringSlice(group["proxies"]) {
			re, ok := compileGroupRegex(entry)
			if !ok {
				merged = append(merged, entry)
				continue
			}
			replaced = true
			for _, candidate := range names {
				if re.MatchString(candidate) {
					merged = append(merged, candidate)
				}
			}
		}
		if !replaced {
			merged = append(merged, names...)
		}
		merged = uniqueStrings(merged)
		if len(merged) == 0 {
			continue
		}
		group["proxies"] = merged
		filtered = append(filtered, group)
	}
	if !hasGroup(filtered, profile) {
		filtered = append([]any{map[string]any{
			"name":    profile,
			"type":    "select",
			"proxies": append([]string(nil), names...),
		}}, filtered...)
	}
	config["proxy-groups"] = filtered
}

func hasGroup(groups []any, name string) bool {
	for _, g := range groups {
		if m, ok := g.(map[string]any); ok && m["name"] == name {
			return true
		}
	}
	return false
}

// uniqueNames returns a copy of proxies where a name already taken, by an
// earlier proxy or by a template proxy, gets a " 2", " 3", ... suffix.
func uniqueNames(proxies []protocol.Proxy, template []any) []protocol.Proxy {
	taken := make(map[string]struct{}, len(proxies)+len(template))
	for _, item := range template {
		if m, ok := item.(map[string]any); ok {
			if name, ok := m["name"].(string); ok {
				taken[name] = struct{}{}
			}
		}
	}
	out := make([]protocol.Proxy, len(proxies))
	for i, p := range proxies {
		name := p.Name
		for n := 2; ; n++ {
			if _, dup := taken[name]; !dup {
				break
			}
			name = fmt.Sprintf("%s %d", p.Name, n)
		}
		taken[name] = struct{}{}
		p.Name = name
		out[i] = p
	}
	return out
}

func applyRules(config map[string]any, profile string) {
	rules := toStringSlice(config["rules"])
	match := "MATCH," + profile
	for _, rule := range rules {
		if strings.HasPrefix(strings.TrimSpace(rule), "MATCH,") {
			config["rules"] = rules
			return
		}
	}
	config["rules"] = append(rules, match)
}

func compileGroupRegex(expr string) (*regexp.Regexp, bool) {
	if len(expr) < 2 || !strings.HasPrefix(expr, "/") {
		return nil, false
	}
	last := strings.LastIndex(expr, "/")
	if last <= 0 {
		return nil, false
	}
	pattern := expr[1:last]
	if strings.Contains(expr[last+1:], "i") {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, false
	}
	return re, true
}

func toAnySlice(value any) []any {
	switch v := value.(type) {
	case []any:
		return append([]any(nil), v...)
	case []map[string]any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, item)
		}
		return out
	}
	return nil
}

func toMapSlice(value any) []map[string]any {
	var result []map[string]any
	for _, item := range toAnySlice(value) {
		if m, ok := item.(map[string]any); ok {
			result = append(result, m)
		}
	}
	return result
}

func toStringSlice(value any) []string {
	var result []string
	switch v := value.(type) {
	case []string:
		return append(result, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
	case string:
		result = append(result, v)
	}
	return result
}

// uniqueStrings keeps the first occurrence of each trimmed, non-empty value.
func uniqueStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	var result []string
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
