package format

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@/:]+@[^\s@/:]+\.[^\s@/:]+$`)
	schemePattern = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.\-]*):`)
)

// SanitizeLink 将用户填写的链接转换为可点击 URL。
// 只允许 http、https、mailto；返回空串表示按纯文本展示。
func SanitizeLink(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if emailPattern.MatchString(s) {
		return "mailto:" + s
	}

	candidate := s
	if !hasScheme(s) {
		candidate = "https://" + strings.TrimPrefix(s, "//")
	}

	u, err := url.Parse(candidate)
	if err != nil {
		if strings.Contains(s, "@") && !strings.ContainsAny(s, " \t\r\n") && !hasScheme(s) {
			return "mailto:" + s
		}
		return ""
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if !validHost(u.Hostname()) {
			return ""
		}
		return u.String()
	case "mailto":
		if u.Opaque == "" && u.Path == "" {
			return ""
		}
		return u.String()
	default:
		return ""
	}
}

// DisplayLink 返回适合展示的链接文本（去掉协议、www 与末尾斜杠）。
func DisplayLink(link string) string {
	s := strings.TrimSpace(link)
	for _, prefix := range []string{"https://", "http://", "mailto:"} {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			s = s[len(prefix):]
			break
		}
	}
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimSuffix(s, "/")
}

// "www.site.com:8080" 这类带点的前缀不是协议，除非后面紧跟 "//"。
func hasScheme(s string) bool {
	m := schemePattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	if strings.Contains(m[1], ".") && !strings.HasPrefix(s[len(m[0]):], "//") {
		return false
	}
	return true
}

func validHost(host string) bool {
	if host == "" || strings.ContainsAny(host, " \t") {
		return false
	}
	return host == "localhost" || strings.Contains(host, ".")
}
