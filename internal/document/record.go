package document

import (
	"fmt"

	"github.com/creamcroissant/subconv/internal/protocol"
)

// 各协议的 Clash 记录。字段顺序即输出顺序，键名需与 Clash/mihomo 保持一致。

type vmessRecord struct {
	Name           string     `yaml:"name"`
	Type           string     `yaml:"type"`
	Server         string     `yaml:"server"`
	Port           int        `yaml:"port"`
	UUID           string     `yaml:"uuid"`
	AlterID        int        `yaml:"alterId"`
	Cipher         string     `yaml:"cipher"`
	TLS            bool       `yaml:"tls"`
	Network        string     `yaml:"network"`
	SkipCertVerify bool       `yaml:"skip-cert-verify"`
	ServerName     string     `yaml:"servername,omitempty"`
	WSOpts         *wsOptions `yaml:"ws-opts,omitempty"`
}

type vlessRecord struct {
	Name           string       `yaml:"name"`
	Type           string       `yaml:"type"`
	Server         string       `yaml:"server"`
	Port           int          `yaml:"port"`
	UUID           string       `yaml:"uuid"`
	TLS            bool         `yaml:"tls"`
	Network        string       `yaml:"network"`
	ServerName     string       `yaml:"servername,omitempty"`
	Flow           string       `yaml:"flow,omitempty"`
	SkipCertVerify bool         `yaml:"skip-cert-verify"`
	WSOpts         *wsOptions   `yaml:"ws-opts,omitempty"`
	GRPCOpts       *grpcOptions `yaml:"grpc_opts,omitempty"`
}

type trojanRecord struct {
	Name           string     `yaml:"name"`
	Type           string     `yaml:"type"`
	Server         string     `yaml:"server"`
	Port           int        `yaml:"port"`
	Password       string     `yaml:"password"`
	TLS            bool       `yaml:"tls"`
	Network        string     `yaml:"network"`
	ServerName     string     `yaml:"servername"`
	SkipCertVerify bool       `yaml:"skip-cert-verify"`
	WSOpts         *wsOptions `yaml:"ws-opts,omitempty"`
}

type wsOptions struct {
	Path    string    `yaml:"path"`
	Headers wsHeaders `yaml:"headers"`
}

type wsHeaders struct {
	Host string `yaml:"Host"`
}

type grpcOptions struct {
	ServiceName string `yaml:"grpc-service-name"`
}

// Record projects a proxy onto its Clash record. The switch is exhaustive
// over protocol types; an unknown type or a missing variant is an error.
func Record(p protocol.Proxy) (any, error) {
	switch p.Type {
	case protocol.TypeVMess:
		if p.VMess == nil {
			return nil, fmt.Errorf("vmess proxy %q has no vmess options", p.Name)
		}
		return vmessRecord{
			Name:           p.Name,
			Type:           string(p.Type),
			Server:         p.Server,
			Port:           p.Port,
			UUID:           p.VMess.UUID,
			AlterID:        p.VMess.AlterID,
			Cipher:         p.VMess.Cipher,
			TLS:            p.TLS,
			Network:        p.VMess.Network,
			SkipCertVerify: p.SkipCertVerify,
			ServerName:     p.ServerName,
			WSOpts:         newWSOptions(p.VMess.WebSocket),
		}, nil
	case protocol.TypeVLESS:
		if p.VLESS == nil {
			return nil, fmt.Errorf("vless proxy %q has no vless options", p.Name)
		}
		rec := vlessRecord{
			Name:           p.Name,
			Type:           string(p.Type),
			Server:         p.Server,
			Port:           p.Port,
			UUID:           p.VLESS.UUID,
			TLS:            p.TLS,
			Network:        p.VLESS.Network,
			ServerName:     p.ServerName,
			Flow:           p.VLESS.Flow,
			SkipCertVerify: p.SkipCertVerify,
			WSOpts:         newWSOptions(p.VLESS.WebSocket),
		}
		if p.VLESS.GRPC != nil {
			rec.GRPCOpts = &grpcOptions{ServiceName: p.VLESS.GRPC.ServiceName}
		}
		return rec, nil
	case protocol.TypeTrojan:
		if p.Trojan == nil {
			return nil, fmt.Errorf("trojan proxy %q has no trojan options", p.Name)
		}
		return trojanRecord{
			Name:           p.Name,
			Type:           string(p.Type),
			Server:         p.Server,
			Port:           p.Port,
			Password:       p.Trojan.Password,
			TLS:            p.TLS,
			Network:        p.Trojan.Network,
			ServerName:     p.ServerName,
			SkipCertVerify: p.SkipCertVerify,
			WSOpts:         newWSOptions(p.Trojan.WebSocket),
		}, nil
	default:
		return nil, fmt.Errorf("unknown proxy type %q", p.Type)
	}
}

func newWSOptions(ws *protocol.WebSocketOptions) *wsOptions {
	if ws == nil {
		return nil
	}
	return &wsOptions{Path: ws.Path, Headers: wsHeaders{Host: ws.Host}}
}
