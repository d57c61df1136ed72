package protocol

const trojanPrefix = "trojan://"

// TrojanParser decodes trojan://password@host:port?params#name links.
// Trojan only runs over TLS, so TLS is never read from the link.
type TrojanParser struct{}

// NewTrojanParser returns the trojan link parser.
func NewTrojanParser() *TrojanParser {
	return &TrojanParser{}
}

func (TrojanParser) Type() Type     { return TypeTrojan }
func (TrojanParser) Prefix() string { return trojanPrefix }

// Parse implements Parser.
func (TrojanParser) Parse(line string) (*Proxy, error) {
	link, err := parseShareLink(TypeTrojan, "Trojan", line)
	if err != nil {
		return nil, err
	}

	opts := &TrojanOptions{
		Password: link.credential,
		Network:  link.param("type", "tcp"),
	}
	if opts.Network == "ws" {
		opts.WebSocket = link.webSocket()
	}

	// 与 vless 不同：sni 缺省回落到主机名；verify=false 也会跳过校验
	insecure := link.query.Get("allowInsecure") == "1" || link.query.Get("verify") == "false"

	return &Proxy{
		Name:           link.name,
		Type:           TypeTrojan,
		Server:         link.host,
		Port:           link.port,
		TLS:            true,
		SkipCertVerify: insecure,
		ServerName:     link.param("sni", link.host),
		Trojan:         opts,
	}, nil
}
