package protocol

import (
	"errors"
	"net"
	"net/url"
	"strconv"
)

// shareLink is the URI form shared by vless:// and trojan:// links:
// scheme://credential@host:port?query#name
type shareLink struct {
	credential string
	host       string
	port       int
	name       string
	query      url.Values
}

func parseShareLink(proto Type, label, line string) (*shareLink, error) {
	u, err := url.Parse(line)
	if err != nil {
		// url.Error 会回显完整链接（含密码），只保留内部原因
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, wrapParseError(ErrMalformedPayload, proto, err, "Invalid %s link: not a valid URL.", label)
	}
	host := u.Hostname()
	if host == "" {
		return nil, newParseError(ErrMalformedPayload, proto, "Invalid %s link: missing host.", label)
	}
	rawPort := u.Port()
	if rawPort == "" {
		return nil, newParseError(ErrMalformedPayload, proto, "Invalid %s link: missing port.", label)
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return nil, wrapParseError(ErrMalformedPayload, proto, err, "Invalid %s link: port %q is not a number.", label, rawPort)
	}

	name := u.Fragment
	if name == "" {
		name = net.JoinHostPort(host, rawPort)
	}
	return &shareLink{
		credential: u.User.Username(),
		host:       host,
		port:       port,
		name:       name,
		query:      u.Query(),
	}, nil
}

// param returns the query value, or fallback when it is missing or empty.
func (l *shareLink) param(key, fallback string) string {
	if v := l.query.Get(key); v != "" {
		return v
	}
	return fallback
}

// webSocket builds ws options from the path/host query parameters.
func (l *shareLink) webSocket() *WebSocketOptions {
	return &WebSocketOptions{
		Path: l.param("path", "/"),
		Host: l.param("host", l.host),
	}
}
