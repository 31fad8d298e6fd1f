package anubis

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/valyala/bytebufferpool"
)

func isCircuitFailure(err error) bool {
	return errors.Is(err, errAnubisTransient)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}

// buildIntrospectCurlPreview renders a copy-pasteable request preview
// for debug logs. The token and admin key are always redacted.
func buildIntrospectCurlPreview(introspectURL string, withAdminKey bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	appendFlagHeader := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(introspectURL))
	appendFlagHeader("Content-Type: application/json")
	if withAdminKey {
		appendFlagHeader("x-admin-key: ***")
	}
	appendPart("-d")
	appendPart(shellQuote(`{"token":"***"}`))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}
