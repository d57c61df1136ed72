// Package protocol parses vmess, vless and trojan share links into a
// normalized proxy model.
package protocol

// Type is the protocol discriminant of a Proxy.
type Type string

const (
	TypeVMess  Type = "vmess"
	TypeVLESS  Type = "vless"
	TypeTrojan Type = "trojan"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// Proxy is the normalized result of parsing one share link.
//
// Exactly one of VMess, VLESS and Trojan is set and it always matches Type.
// A Proxy is never modified after the parser that built it returns.
type Proxy struct {
	Name           string `json:"name"`
	Type           Type   `json:"type"`
	Server         string `json:"server"`
	Port           int    `json:"port"`
	TLS            bool   `json:"tls"`
	SkipCertVerify bool   `json:"skip_cert_verify"`
	ServerName     string `json:"server_name,omitempty"` // 空字符串表示未设置 SNI

	VMess  *VMessOptions  `json:"vmess,omitempty"`
	VLESS  *VLESSOptions  `json:"vless,omitempty"`
	Trojan *TrojanOptions `json:"trojan,omitempty"`
}

// VMessOptions carries the vmess specific fields.
type VMessOptions struct {
	UUID      string            `json:"uuid"`
	AlterID   int               `json:"alter_id"`
	Cipher    string            `json:"cipher"`
	Network   string            `json:"network"`
	WebSocket *WebSocketOptions `json:"ws,omitempty"`
}

// VLESSOptions carries the vless specific fields.
type VLESSOptions struct {
	UUID      string            `json:"uuid"`
	Network   string            `json:"network"`
	Flow      string            `json:"flow,omitempty"`
	WebSocket *WebSocketOptions `json:"ws,omitempty"`
	GRPC      *GRPCOptions      `json:"grpc,omitempty"`
}

// TrojanOptions carries the trojan specific fields.
type TrojanOptions struct {
	Password  string            `json:"password"`
	Network   string            `json:"network"`
	WebSocket *WebSocketOptions `json:"ws,omitempty"`
}

// WebSocketOptions describes the ws transport.
type WebSocketOptions struct {
	Path string `json:"path"`
	Host string `json:"host"` // Host 请求头
}

// GRPCOptions describes the grpc transport.
type GRPCOptions struct {
	ServiceName string `json:"service_name"`
}

// Network returns the transport of the active variant.
func (p *Proxy) Network() string {
	if p == nil {
		return ""
	}
	switch p.Type {
	case TypeVMess:
		if p.VMess != nil {
			return p.VMess.Network
		}
	case TypeVLESS:
		if p.VLESS != nil {
			return p.VLESS.Network
		}
	case TypeTrojan:
		if p.Trojan != nil {
			return p.Trojan.Network
		}
	}
	return ""
}

// Parser decodes a single share link of one scheme.
type Parser interface {
	// Type reports the protocol produced by the parser.
	Type() Type
	// Prefix is the case-sensitive scheme prefix, e.g. "vmess://".
	Prefix() string
	// Parse decodes the full line, prefix included.
	Parse(line string) (*Proxy, error)
}
