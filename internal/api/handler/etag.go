// 文件路径: internal/api/handler/etag.go
// 模块说明: ETag 的格式化与 If-None-Match 匹配。
package handler

import (
	"net/http"
	"strings"
)

func formatETag(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return "\"" + trimmed + "\""
}

// etagMatches reports whether If-None-Match lists etag (or "*").
func etagMatches(r *http.Request, etag string) bool {
	header := strings.TrimSpace(r.Header.Get("If-None-Match"))
	if header == "" || etag == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
