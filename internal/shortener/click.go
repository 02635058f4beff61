package shortener

import "time"

// ClickEvent is one recorded occurrence of a redirect. Events are append-only
// and reference an existing link; the resolver has already confirmed the code
// exists by the time one is recorded.
type ClickEvent struct {
	Code      Code      `json:"code"`
	Timestamp time.Time `json:"timestamp"`
	Referrer  string    `json:"referrer"`
	UserAgent string    `json:"userAgent"`
	IP        string    `json:"ip"`
	Country   string    `json:"country"`
}
