package protocol

const vlessPrefix = "vless://"

// VLESSParser decodes vless://uuid@host:port?params#name links.
type VLESSParser struct{}

// NewVLESSParser returns the vless link parser.
func NewVLESSParser() *VLESSParser {
	return &VLESSParser{}
}

func (VLESSParser) Type() Type     { return TypeVLESS }
func (VLESSParser) Prefix() string { return vlessPrefix }

// Parse implements Parser.
func (VLESSParser) Parse(line string) (*Proxy, error) {
	link, err := parseShareLink(TypeVLESS, "VLESS", line)
	if err != nil {
		return nil, err
	}

	opts := &VLESSOptions{
		UUID:    link.credential,
		Network: link.param("type", "tcp"),
		Flow:    link.param("flow", ""),
	}
	switch opts.Network {
	case "ws":
		opts.WebSocket = link.webSocket()
	case "grpc":
		opts.GRPC = &GRPCOptions{ServiceName: link.param("serviceName", "")}
	}

	return &Proxy{
		Name:           link.name,
		Type:           TypeVLESS,
		Server:         link.host,
		Port:           link.port,
		TLS:            link.query.Get("security") == "tls",
		SkipCertVerify: link.query.Get("allowInsecure") == "1",
		ServerName:     link.param("sni", ""),
		VLESS:          opts,
	}, nil
}
