package news

import (
	"context"
	"sync"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/adapter"
)

// FeedSource fetches the news feeds from the unauthenticated news API.
type FeedSource interface {
	NewsSummaries(ctx context.Context, page, size int) ([]adapter.NewsSummary, error)
	NewsTranslations(ctx context.Context, page, size int) ([]adapter.NewsTranslation, error)
}

const (
	_defaultFeedPageSize = 20
	_defaultFeedTTL      = 5 * time.Minute
)

// Service serves the news panel. Feeds are fetched lazily the first
// time the panel is opened, then reused until the TTL runs out. A
// fetch failure serves the last good feed, or canned headlines before
// the first success.
type Service struct {
	source FeedSource
	ttl    time.Duration
	now    func() time.Time

	mu                    sync.Mutex
	summaries             []adapter.NewsSummary
	summariesFetchedAt    time.Time
	summariesSynthetic    bool
	translations          []adapter.NewsTranslation
	translationsFetched   time.Time
	translationsSynthetic bool
}

func NewService(source FeedSource, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = _defaultFeedTTL
	}
	return &Service{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Summaries returns the summaries feed. The second result reports
// whether the data is synthetic.
func (s *Service) Summaries(ctx context.Context) ([]adapter.NewsSummary, bool) {
	if s == nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.summariesFetchedAt.IsZero() && s.now().Sub(s.summariesFetchedAt) < s.ttl {
		return copySummaries(s.summaries), s.summariesSynthetic
	}

	items, err := s.source.NewsSummaries(ctx, 0, _defaultFeedPageSize)
	if err != nil {
		logs.Warnf("fetch news summaries, err: %+v", err)
		if s.summariesFetchedAt.IsZero() {
			s.summaries = SyntheticSummaries(s.now())
			s.summariesFetchedAt = s.now()
			s.summariesSynthetic = true
		}
		return copySummaries(s.summaries), s.summariesSynthetic
	}

	s.summaries = items
	s.summariesFetchedAt = s.now()
	s.summariesSynthetic = false
	return copySummaries(items), false
}

// Translations returns the translated feed. The second result reports
// whether the data is synthetic.
func (s *Service) Translations(ctx context.Context) ([]adapter.NewsTranslation, bool) {
	if s == nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.translationsFetched.IsZero() && s.now().Sub(s.translationsFetched) < s.ttl {
		return copyTranslations(s.translations), s.translationsSynthetic
	}

	items, err := s.source.NewsTranslations(ctx, 0, _defaultFeedPageSize)
	if err != nil {
		logs.Warnf("fetch news translations, err: %+v", err)
		if s.translationsFetched.IsZero() {
			s.translations = SyntheticTranslations(s.now())
			s.translationsFetched = s.now()
			s.translationsSynthetic = true
		}
		return copyTranslations(s.translations), s.translationsSynthetic
	}

	s.translations = items
	s.translationsFetched = s.now()
	s.translationsSynthetic = false
	return copyTranslations(items), false
}

func copySummaries(items []adapter.NewsSummary) []adapter.NewsSummary {
	copied := make([]adapter.NewsSummary, len(items))
	copy(copied, items)
	return copied
}

func copyTranslations(items []adapter.NewsTranslation) []adapter.NewsTranslation {
	copied := make([]adapter.NewsTranslation, len(items))
	copy(copied, items)
	return copied
}

// SyntheticSummaries is the canned summaries feed shown while the news
// API is unreachable.
func SyntheticSummaries(now time.Time) []adapter.NewsSummary {
	return []adapter.NewsSummary{
		{
			Title:     "BTC/JPY holds above 14.9M as spot flows steady",
			Summary:   "Spot volumes on domestic venues stayed firm through the Tokyo session.",
			Source:    "offline",
			Timestamp: now.Add(-time.Hour),
		},
		{
			Title:     "Funding rates flat across JPY perpetuals",
			Summary:   "Perpetual funding hovered near zero, signalling balanced positioning.",
			Source:    "offline",
			Timestamp: now.Add(-2 * time.Hour),
		},
	}
}

// SyntheticTranslations is the canned translated feed.
func SyntheticTranslations(now time.Time) []adapter.NewsTranslation {
	return []adapter.NewsTranslation{
		{
			Title:     "BTC/JPY holds above 14.9M as spot flows steady",
			TitleJP:   "BTC/JPYは1490万円台を維持、現物フローは安定",
			Body:      "東京時間を通じて国内取引所の現物出来高は底堅く推移した。",
			Impact:    0.3,
			Timestamp: now.Add(-time.Hour),
		},
	}
}
