package handlers

import "time"

// CreateShortURLRequest is the request body for creating a short link.
type CreateShortURLRequest struct {
	Body struct {
		URL       string `doc:"The URL to shorten"                             example:"https://example.com/very/long/path" json:"url"`
		Validity  *int   `doc:"Validity window in minutes (default 30)"        example:"30"                                 json:"validity,omitempty"  required:"false"`
		Shortcode string `doc:"Custom shortcode (4-20 alphanumeric, optional)" example:"promo24"                            json:"shortcode,omitempty" required:"false"`
	}
}

// CreateShortURLResponse is the response for a successfully created short link.
type CreateShortURLResponse struct {
	Location string `doc:"The short URL location" header:"Location"`
	Body     struct {
		ShortLink string    `doc:"The full short URL"             example:"http://localhost:8888/Ab3xY9z" json:"shortLink"`
		Expiry    time.Time `doc:"When the short link stops resolving"                                    json:"expiry"`
	}
}

// RedirectRequest is the request for following a short link.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"Ab3xY9z" path:"code"`
}

// RedirectResponse redirects the caller to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `doc:"The original URL" header:"Location"`
}

// StatsRequest is the request for a short link's click statistics.
type StatsRequest struct {
	Code string `doc:"The short code" example:"Ab3xY9z" path:"code"`
}

// ClickRecord is one redirect occurrence as exposed in stats.
type ClickRecord struct {
	Timestamp time.Time `doc:"When the redirect happened"             json:"timestamp"`
	Referrer  string    `doc:"Referrer header, may be empty"          json:"referrer"`
	IP        string    `doc:"Caller address, Unknown when unmapped"  json:"ip"`
	UserAgent string    `doc:"User-Agent header, may be empty"        json:"user_agent"`
	Country   string    `doc:"Two-letter region, Unknown when absent" json:"country"`
}

// StatsResponse is the aggregate statistics for a short link.
type StatsResponse struct {
	Body struct {
		Shortcode   string        `doc:"The short code"                      json:"shortcode"`
		URL         string        `doc:"The original URL"                    json:"url"`
		CreatedAt   time.Time     `doc:"When the link was created"           json:"createdAt"`
		Expiry      time.Time     `doc:"When the link stops resolving"       json:"expiry"`
		TotalClicks int64         `doc:"Total recorded redirects"            json:"totalClicks"`
		Clicks      []ClickRecord `doc:"Most recent redirects, newest first" json:"clicks"`
	}
}
