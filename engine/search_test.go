package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawding/lawgraph"
)

func searchState() *conversationState {
	analysis := laborAnalysis()
	return &conversationState{UserQuery: "퇴직금 언제 받아요?", Analysis: &analysis}
}

func TestSearch_ExpansionFailureFallsBackToOriginal(t *testing.T) {
	model := &fakeModel{
		structuredErr: map[string]error{"expanded_query": assert.AnError},
		structured:    map[string][]any{},
	}
	index := &fakeIndex{results: [][]lawgraph.Document{testDocs()}}
	eng := newTestEngine(model, &fakeProvider{index: index}, nil)

	patch := eng.search(context.Background(), searchState())

	assert.True(t, patch.docsSet)
	assert.Equal(t, 1, index.searchCalls)
	assert.NotEmpty(t, patch.docs)
}

func TestSearch_VariantsDedupedAndCapped(t *testing.T) {
	model := &fakeModel{
		structured: map[string][]any{
			"expanded_query": {lawgraph.ExpandedQuery{
				KeywordQuery: "퇴직금 지급 기한",
				ExpandedQueries: []string{
					"퇴직금 지급 기한", // duplicate of the keyword query
					"퇴직급여 미지급 신고",
					"금품 청산 의무",
					"임금 체불 구제",
					"한도를 넘는 다섯 번째 쿼리",
				},
			}},
		},
	}
	index := &fakeIndex{results: [][]lawgraph.Document{testDocs()}}
	eng := newTestEngine(model, &fakeProvider{index: index}, nil)

	patch := eng.search(context.Background(), searchState())

	assert.True(t, patch.docsSet)
	assert.Equal(t, eng.cfg.MaxQueries, index.searchCalls)
}

func TestSearch_CrossQueryDedupKeepsHigherScore(t *testing.T) {
	model := &fakeModel{
		structured: map[string][]any{
			"expanded_query": {lawgraph.ExpandedQuery{
				KeywordQuery:    "퇴직금",
				ExpandedQueries: []string{"퇴직급여"},
			}},
		},
	}
	index := &fakeIndex{results: [][]lawgraph.Document{
		{
			{ID: "doc-1", Content: "본문", StatuteName: "근로기준법", Score: 0.7},
			{ID: "doc-2", Content: "다른 본문", StatuteName: "최저임금법", Score: 0.3},
		},
		{
			{ID: "doc-1", Content: "본문", StatuteName: "근로기준법", Score: 0.9},
		},
	}}
	eng := newTestEngine(model, &fakeProvider{index: index}, nil)

	patch := eng.search(context.Background(), searchState())

	require.True(t, patch.docsSet)
	byID := map[string]lawgraph.Document{}
	for _, doc := range patch.docs {
		byID[doc.ID] = doc
	}
	require.Contains(t, byID, "doc-1")
	// 0.9 from the second variant, plus the referenced-statute boost.
	assert.InDelta(t, 0.9+eng.cfg.StatuteBoost, byID["doc-1"].Score, 1e-9)
	assert.True(t, byID["doc-1"].Boosted)
}

func TestSearch_BoostOnlyMatchingStatutes(t *testing.T) {
	eng := newTestEngine(&fakeModel{}, &fakeProvider{index: &fakeIndex{}}, nil)

	docs := []lawgraph.Document{
		{ID: "a", StatuteName: "근로기준법", Score: 0.5},
		{ID: "b", StatuteName: "최저임금법", Score: 0.5},
		{ID: "c", StatuteName: "", Score: 0.5},
	}
	state := searchState()
	boosted := eng.boostDocs(state, docs)

	byID := map[string]lawgraph.Document{}
	for _, doc := range boosted {
		byID[doc.ID] = doc
	}
	assert.True(t, byID["a"].Boosted)
	assert.InDelta(t, 0.6, byID["a"].Score, 1e-9)
	assert.False(t, byID["b"].Boosted)
	assert.InDelta(t, 0.5, byID["b"].Score, 1e-9)
	assert.False(t, byID["c"].Boosted)
}

func TestSearch_BoostCanExceedOne(t *testing.T) {
	eng := newTestEngine(&fakeModel{}, &fakeProvider{index: &fakeIndex{}}, nil)

	docs := []lawgraph.Document{{ID: "a", StatuteName: "근로기준법", Score: 0.95}}
	boosted := eng.boostDocs(searchState(), docs)

	assert.Greater(t, boosted[0].Score, 1.0)
}

func TestSearch_FilterUsesBoostedScore(t *testing.T) {
	eng := newTestEngine(&fakeModel{}, &fakeProvider{index: &fakeIndex{}}, nil)

	// 0.15 is under the 0.2 threshold until the boost lifts it over.
	state := searchState()
	docs := eng.boostDocs(state, []lawgraph.Document{
		{ID: "a", StatuteName: "근로기준법", Score: 0.15},
		{ID: "b", StatuteName: "최저임금법", Score: 0.15},
	})
	kept := eng.filterDocs(docs)

	require.Len(t, kept, 1)
	assert.Equal(t, "a", kept[0].ID)
}

func TestSearch_TruncatesToTopKFinal(t *testing.T) {
	many := []lawgraph.Document{
		{ID: "a", Content: "1", Score: 0.9},
		{ID: "b", Content: "2", Score: 0.8},
		{ID: "c", Content: "3", Score: 0.7},
		{ID: "d", Content: "4", Score: 0.6},
		{ID: "e", Content: "5", Score: 0.5},
	}
	model := &fakeModel{
		structuredErr: map[string]error{"expanded_query": assert.AnError},
		structured:    map[string][]any{},
	}
	index := &fakeIndex{results: [][]lawgraph.Document{many}}
	eng := newTestEngine(model, &fakeProvider{index: index}, nil)

	state := searchState()
	state.Analysis.RelatedLaws = nil
	patch := eng.search(context.Background(), state)

	require.True(t, patch.docsSet)
	require.Len(t, patch.docs, eng.cfg.TopKFinal)
	assert.Equal(t, "a", patch.docs[0].ID)
	assert.Equal(t, "c", patch.docs[2].ID)
}

func TestSearch_RerankerReordersAndTruncates(t *testing.T) {
	model := &fakeModel{
		structuredErr: map[string]error{"expanded_query": assert.AnError},
		structured:    map[string][]any{},
	}
	index := &fakeIndex{results: [][]lawgraph.Document{{
		{ID: "a", Content: "a", Score: 0.9},
		{ID: "b", Content: "b", Score: 0.8},
	}}}
	reranker := &fakeReranker{scores: []float64{0.3, 0.95}}
	eng := newTestEngine(model, &fakeProvider{index: index}, func(o *Options) {
		o.Reranker = reranker
	})

	state := searchState()
	state.Analysis.RelatedLaws = nil
	patch := eng.search(context.Background(), state)

	require.True(t, patch.docsSet)
	require.Len(t, patch.docs, 2)
	assert.Equal(t, "b", patch.docs[0].ID)
	assert.InDelta(t, 0.95, patch.docs[0].Score, 1e-9)
	assert.Equal(t, 1, reranker.calls)
}

func TestSearch_RerankerErrorPassesThrough(t *testing.T) {
	model := &fakeModel{
		structuredErr: map[string]error{"expanded_query": assert.AnError},
		structured:    map[string][]any{},
	}
	index := &fakeIndex{results: [][]lawgraph.Document{{
		{ID: "a", Content: "a", Score: 0.9},
		{ID: "b", Content: "b", Score: 0.8},
	}}}
	eng := newTestEngine(model, &fakeProvider{index: index}, func(o *Options) {
		o.Reranker = &fakeReranker{err: assert.AnError}
	})

	state := searchState()
	state.Analysis.RelatedLaws = nil
	patch := eng.search(context.Background(), state)

	require.True(t, patch.docsSet)
	require.Len(t, patch.docs, 2)
	assert.Equal(t, "a", patch.docs[0].ID)
}

func TestSearch_IndexOpenFailureYieldsNoDocuments(t *testing.T) {
	model := &fakeModel{
		structuredErr: map[string]error{"expanded_query": assert.AnError},
		structured:    map[string][]any{},
	}
	provider := &fakeProvider{openErr: assert.AnError}
	eng := newTestEngine(model, provider, nil)

	patch := eng.search(context.Background(), searchState())

	assert.True(t, patch.docsSet)
	assert.Empty(t, patch.docs)
}

func TestSearch_SparseFailureDegradesToDenseOnly(t *testing.T) {
	model := &fakeModel{
		structuredErr: map[string]error{"expanded_query": assert.AnError},
		structured:    map[string][]any{},
	}
	index := &fakeIndex{results: [][]lawgraph.Document{testDocs()}}
	eng := newTestEngine(model, &fakeProvider{index: index}, func(o *Options) {
		o.Sparse = &fakeSparse{err: assert.AnError}
	})

	patch := eng.search(context.Background(), searchState())

	assert.True(t, patch.docsSet)
	assert.NotEmpty(t, patch.docs)
}

func TestSearch_ClosesIndex(t *testing.T) {
	model := &fakeModel{
		structuredErr: map[string]error{"expanded_query": assert.AnError},
		structured:    map[string][]any{},
	}
	index := &fakeIndex{results: [][]lawgraph.Document{testDocs()}}
	eng := newTestEngine(model, &fakeProvider{index: index}, nil)

	eng.search(context.Background(), searchState())

	assert.True(t, index.closed)
}
