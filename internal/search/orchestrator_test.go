package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fetcharr/fetcharr/internal/rank"
	"github.com/fetcharr/fetcharr/internal/search/mocks"
)

func newTestOrchestrator(t *testing.T, provider Provider, topN int) *Orchestrator {
	t.Helper()
	cache := NewCache(setupTestDB(t), time.Hour)
	ranker := rank.New(rank.Config{})
	return NewOrchestrator(provider, cache, ranker, topN, nil)
}

func TestSearchMergesVariantsFirstWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)

	item := Item{Title: "Show", Season: ptr(1), Episode: ptr(2)}

	// The same ident comes back from two variants with different names; the
	// first occurrence must win.
	first := rank.Candidate{Ident: "dup", Name: "Show.S01E02.1080p.WEB-DL.mkv"}
	second := rank.Candidate{Ident: "dup", Name: "Show.S01E02.480p.DVD.avi"}
	extra := rank.Candidate{Ident: "solo", Name: "Show.S01E02.720p.HDTV.mkv"}

	provider.EXPECT().Search(gomock.Any(), "Show S01E02").Return([]rank.Candidate{first}, nil)
	provider.EXPECT().Search(gomock.Any(), "ShowS01E02").Return([]rank.Candidate{second, extra}, nil)
	provider.EXPECT().Search(gomock.Any(), "Show.S01E02").Return(nil, nil)
	provider.EXPECT().Search(gomock.Any(), "Show 1x02").Return(nil, nil)

	o := newTestOrchestrator(t, provider, 0)
	ranked, err := o.Search(context.Background(), item)
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	names := map[string]string{}
	for _, r := range ranked {
		names[r.Ident] = r.Name
	}
	assert.Equal(t, "Show.S01E02.1080p.WEB-DL.mkv", names["dup"])
	assert.Equal(t, "Show.S01E02.720p.HDTV.mkv", names["solo"])
}

func TestSearchToleratesVariantFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)

	item := Item{Title: "Show", Season: ptr(1), Episode: ptr(2)}

	provider.EXPECT().Search(gomock.Any(), "Show S01E02").Return(nil, ErrProviderUnavailable)
	provider.EXPECT().Search(gomock.Any(), "ShowS01E02").
		Return([]rank.Candidate{{Ident: "a", Name: "Show.S01E02.1080p.WEB-DL.mkv"}}, nil)
	provider.EXPECT().Search(gomock.Any(), "Show.S01E02").Return(nil, ErrProviderUnavailable)
	provider.EXPECT().Search(gomock.Any(), "Show 1x02").Return(nil, ErrProviderUnavailable)

	o := newTestOrchestrator(t, provider, 0)
	ranked, err := o.Search(context.Background(), item)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "a", ranked[0].Ident)
}

func TestSearchAllVariantsFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)

	provider.EXPECT().Search(gomock.Any(), "Primer").
		Return(nil, ErrProviderUnavailable)

	o := newTestOrchestrator(t, provider, 0)
	_, err := o.Search(context.Background(), Item{Title: "Primer"})
	assert.ErrorIs(t, err, ErrAllVariantsFailed)
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)

	provider.EXPECT().Search(gomock.Any(), "Primer").Return(nil, nil)

	o := newTestOrchestrator(t, provider, 0)
	ranked, err := o.Search(context.Background(), Item{Title: "Primer"})
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestSearchServesRepeatFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)

	item := Item{Title: "Primer"}

	// The provider is hit exactly once; the repeat run must be answered
	// entirely from the cache.
	provider.EXPECT().Search(gomock.Any(), "Primer").
		Return([]rank.Candidate{{Ident: "a", Name: "Primer.2004.1080p.BluRay.mkv"}}, nil)

	o := newTestOrchestrator(t, provider, 0)

	first, err := o.Search(context.Background(), item)
	require.NoError(t, err)

	second, err := o.Search(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSearchHonorsTopN(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)

	candidates := []rank.Candidate{
		{Ident: "a", Name: "Primer.2004.2160p.UHD.BluRay.x265.mkv"},
		{Ident: "b", Name: "Primer.2004.1080p.BluRay.mkv"},
		{Ident: "c", Name: "Primer.2004.720p.WEB-DL.mkv"},
	}
	provider.EXPECT().Search(gomock.Any(), "Primer").Return(candidates, nil)

	o := newTestOrchestrator(t, provider, 2)
	ranked, err := o.Search(context.Background(), Item{Title: "Primer"})
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "a", ranked[0].Ident)
	assert.Equal(t, "b", ranked[1].Ident)
}

func TestSearchNoVariants(t *testing.T) {
	o := newTestOrchestrator(t, mocks.NewMockProvider(gomock.NewController(t)), 0)
	_, err := o.Search(context.Background(), Item{})
	assert.Error(t, err)
}

func TestDirectLinkProxiesProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().DirectLink(gomock.Any(), "abc").Return("https://dl.example/abc", nil)

	o := newTestOrchestrator(t, provider, 0)
	link, err := o.DirectLink(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "https://dl.example/abc", link)

	provider.EXPECT().DirectLink(gomock.Any(), "gone").Return("", ErrNoDirectLink)
	_, err = o.DirectLink(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNoDirectLink)
}
