package adapter

import "time"

// NewsSummary is one entry of the summaries feed.
type NewsSummary struct {
	Title     string
	Summary   string
	URL       string
	Source    string
	Timestamp time.Time
}

// NewsTranslation is one entry of the translated feed, scored by
// estimated market impact.
type NewsTranslation struct {
	Title     string
	TitleJP   string
	Body      string
	Impact    float64
	Timestamp time.Time
}
