package clicks

import (
	"strings"
	"time"

	"github.com/serroba/shortlink/internal/shortener"
)

// unknown marks fields whose fallback chain produced nothing.
const unknown = "Unknown"

// FromRequest builds a ClickEvent for code from request metadata.
//
// Fallback order:
//   - ip: first X-Forwarded-For entry, then the direct address, then "Unknown"
//   - country: trusted geo header, then the region subtag of the first
//     Accept-Language tag, then "Unknown"
//   - referrer and userAgent stay empty when the headers are absent
func FromRequest(code shortener.Code, meta RequestMeta, now time.Time) shortener.ClickEvent {
	return shortener.ClickEvent{
		Code:      code,
		Timestamp: now.UTC(),
		Referrer:  meta.Referrer,
		UserAgent: meta.UserAgent,
		IP:        clientIP(meta),
		Country:   country(meta),
	}
}

func clientIP(meta RequestMeta) string {
	if xff := meta.ForwardedFor; xff != "" {
		first := xff
		if idx := strings.Index(xff, ","); idx != -1 {
			first = xff[:idx]
		}

		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if meta.RemoteAddr != "" {
		return meta.RemoteAddr
	}

	return unknown
}

func country(meta RequestMeta) string {
	if c := strings.TrimSpace(meta.CountryHeader); c != "" {
		return strings.ToUpper(c)
	}

	if region := acceptLanguageRegion(meta.AcceptLanguage); region != "" {
		return region
	}

	return unknown
}

// acceptLanguageRegion pulls the two-letter region out of the first tag of an
// Accept-Language header, e.g. "en-US,en;q=0.9" -> "US".
func acceptLanguageRegion(header string) string {
	tag := header
	if idx := strings.IndexAny(tag, ",;"); idx != -1 {
		tag = tag[:idx]
	}

	parts := strings.Split(strings.TrimSpace(tag), "-")
	if len(parts) < 2 {
		return ""
	}

	region := parts[1]
	if len(region) != 2 || !isAlpha(region) {
		return ""
	}

	return strings.ToUpper(region)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}

	return true
}
