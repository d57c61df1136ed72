package protocol

import (
	"encoding/json"
	"strings"
)

const vmessPrefix = "vmess://"

// VMessParser decodes vmess:// links carrying base64 encoded JSON
// (the v2rayN "v2" share format).
type VMessParser struct{}

// NewVMessParser returns the vmess link parser.
func NewVMessParser() *VMessParser {
	return &VMessParser{}
}

func (VMessParser) Type() Type     { return TypeVMess }
func (VMessParser) Prefix() string { return vmessPrefix }

// Parse implements Parser.
func (VMessParser) Parse(line string) (*Proxy, error) {
	payload := strings.TrimPrefix(line, vmessPrefix)
	decoded, err := decodeBase64(payload)
	if err != nil {
		return nil, wrapParseError(ErrDecode, TypeVMess, err, "Invalid VMess config: payload is not valid base64.")
	}

	var value any
	if err := json.Unmarshal(decoded, &value); err != nil {
		return nil, wrapParseError(ErrMalformedPayload, TypeVMess, err, "Invalid VMess config: payload is not valid JSON.")
	}
	if value == nil {
		return nil, newParseError(ErrMalformedPayload, TypeVMess, "Invalid VMess config: payload is null.")
	}
	// 数组、数字、字符串没有任何字段，按缺字段处理
	fields, _ := value.(map[string]any)

	// ps/add/port/id 缺一不可，空串与数字 0 都视为缺失
	for _, key := range []string{"ps", "add", "port", "id"} {
		if !truthy(fields[key]) {
			return nil, newParseError(ErrMissingRequiredField, TypeVMess, vmessMissingFieldsMessage)
		}
	}

	port, err := parseLeadingInt(stringify(fields["port"]))
	if err != nil {
		return nil, wrapParseError(ErrMalformedPayload, TypeVMess, err, "Invalid VMess config: port %s.", err)
	}
	alterID, err := parseLeadingInt(firstTruthy(fields["aid"], "0"))
	if err != nil {
		return nil, wrapParseError(ErrMalformedPayload, TypeVMess, err, "Invalid VMess config: alterId %s.", err)
	}

	server := stringify(fields["add"])
	opts := &VMessOptions{
		UUID:    stringify(fields["id"]),
		AlterID: alterID,
		Cipher:  firstTruthy(fields["scy"], "auto"),
		Network: firstTruthy(fields["net"], "tcp"),
	}
	if opts.Network == "ws" && (truthy(fields["path"]) || truthy(fields["host"])) {
		opts.WebSocket = &WebSocketOptions{
			Path: firstTruthy(fields["path"], "/"),
			Host: firstTruthy(fields["host"], fields["add"]),
		}
	}

	tls, _ := fields["tls"].(string)
	// verify_cert 只有显式 JSON false 才跳过证书校验
	verify, isBool := fields["verify_cert"].(bool)

	return &Proxy{
		Name:           stringify(fields["ps"]),
		Type:           TypeVMess,
		Server:         server,
		Port:           port,
		TLS:            tls == "tls",
		SkipCertVerify: isBool && !verify,
		ServerName:     firstTruthy(fields["sni"], fields["host"]),
		VMess:          opts,
	}, nil
}
