package news

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yanun0323/errors"

	"main/internal/adapter"
)

type scriptedFeed struct {
	failing      bool
	calls        int
	summaries    []adapter.NewsSummary
	translations []adapter.NewsTranslation
}

func (s *scriptedFeed) NewsSummaries(context.Context, int, int) ([]adapter.NewsSummary, error) {
	s.calls++
	if s.failing {
		return nil, errors.New("news api down")
	}
	return s.summaries, nil
}

func (s *scriptedFeed) NewsTranslations(context.Context, int, int) ([]adapter.NewsTranslation, error) {
	s.calls++
	if s.failing {
		return nil, errors.New("news api down")
	}
	return s.translations, nil
}

func TestSummariesCachedWithinTTL(t *testing.T) {
	source := &scriptedFeed{summaries: []adapter.NewsSummary{{Title: "headline"}}}
	service := NewService(source, time.Minute)

	items, synthetic := service.Summaries(context.Background())
	require.Len(t, items, 1)
	assert.False(t, synthetic)
	assert.Equal(t, 1, source.calls)

	// second read inside the TTL serves the cache
	_, _ = service.Summaries(context.Background())
	assert.Equal(t, 1, source.calls)
}

func TestSummariesRefetchAfterTTL(t *testing.T) {
	source := &scriptedFeed{summaries: []adapter.NewsSummary{{Title: "headline"}}}
	service := NewService(source, time.Minute)

	current := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return current }

	_, _ = service.Summaries(context.Background())
	current = current.Add(2 * time.Minute)
	_, _ = service.Summaries(context.Background())
	assert.Equal(t, 2, source.calls)
}

func TestSummariesSyntheticBeforeFirstSuccess(t *testing.T) {
	source := &scriptedFeed{failing: true}
	service := NewService(source, time.Minute)

	items, synthetic := service.Summaries(context.Background())
	assert.True(t, synthetic)
	assert.NotEmpty(t, items)
}

func TestTranslationsServeLastGoodOnFailure(t *testing.T) {
	source := &scriptedFeed{translations: []adapter.NewsTranslation{{Title: "headline", Impact: 0.8}}}
	service := NewService(source, time.Minute)

	current := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return current }

	items, synthetic := service.Translations(context.Background())
	require.Len(t, items, 1)
	assert.False(t, synthetic)

	source.failing = true
	current = current.Add(2 * time.Minute)
	items, synthetic = service.Translations(context.Background())
	require.Len(t, items, 1)
	assert.False(t, synthetic)
	assert.Equal(t, "headline", items[0].Title)
}
