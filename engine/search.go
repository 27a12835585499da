package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lawding/lawgraph"
)

// search runs the full retrieval pass: query expansion, concurrent hybrid
// search per variant, cross-query merge, reranking, statute boosting,
// threshold filtering, and final truncation. Retrieval never fails the run;
// any error degrades to an empty document set.
func (e *Engine) search(ctx context.Context, state *conversationState) statePatch {
	query := state.Analysis.SearchQuery(state.UserQuery)

	variants := e.expandQuery(ctx, query)
	e.logger.Info("search: %d query variants", len(variants))

	docs, err := e.retrieve(ctx, variants)
	if err != nil {
		e.logger.Warn("retrieval failed, continuing with no documents: %v", err)
		return statePatch{docs: []lawgraph.Document{}, docsSet: true}
	}

	docs = e.rerankDocs(ctx, query, docs)
	docs = e.boostDocs(state, docs)
	docs = e.filterDocs(docs)

	if len(docs) > e.cfg.TopKFinal {
		docs = docs[:e.cfg.TopKFinal]
	}

	e.logger.Info("search: %d documents selected", len(docs))
	return statePatch{docs: docs, docsSet: true}
}

// expandQuery asks the model for a keyword query plus semantic variants and
// dedupes them. On failure the original query searches alone.
func (e *Engine) expandQuery(ctx context.Context, query string) []string {
	messages := []lawgraph.Message{
		lawgraph.SystemMessage(e.cfg.Prompts.QueryExpansion),
		lawgraph.UserMessage(query),
	}

	var expanded lawgraph.ExpandedQuery
	if err := e.model.CompleteStructured(ctx, messages, "expanded_query", &expanded); err != nil {
		e.logger.Warn("query expansion failed, searching original only: %v", err)
		return []string{query}
	}

	candidates := make([]string, 0, len(expanded.ExpandedQueries)+1)
	if expanded.KeywordQuery != "" {
		candidates = append(candidates, expanded.KeywordQuery)
	}
	candidates = append(candidates, expanded.ExpandedQueries...)

	seen := make(map[string]struct{}, len(candidates))
	variants := make([]string, 0, e.cfg.MaxQueries)
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		variants = append(variants, c)
		if len(variants) == e.cfg.MaxQueries {
			break
		}
	}
	if len(variants) == 0 {
		variants = []string{query}
	}
	return variants
}

// retrieve fans the variants out over one index connection. Each variant
// encodes and searches independently; a failing variant contributes nothing
// instead of failing the pass.
func (e *Engine) retrieve(ctx context.Context, variants []string) ([]lawgraph.Document, error) {
	if e.embedder == nil {
		return nil, fmt.Errorf("no embedder configured")
	}

	index, err := e.index.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer index.Close()

	var mu sync.Mutex
	merged := make(map[string]lawgraph.Document)

	g, gctx := errgroup.WithContext(ctx)
	for _, variant := range variants {
		variant := variant
		g.Go(func() error {
			docs := e.searchVariant(gctx, index, variant)
			mu.Lock()
			defer mu.Unlock()
			for _, doc := range docs {
				key := doc.Key()
				if prev, ok := merged[key]; !ok || doc.Score > prev.Score {
					merged[key] = doc
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	docs := make([]lawgraph.Document, 0, len(merged))
	for _, doc := range merged {
		docs = append(docs, doc)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Score > docs[j].Score
	})
	return docs, nil
}

// searchVariant encodes one variant and queries the index. Dense and sparse
// encoding run concurrently; a sparse failure degrades to dense-only.
func (e *Engine) searchVariant(ctx context.Context, index lawgraph.VectorIndex, variant string) []lawgraph.Document {
	var (
		dense  []float32
		sparse *lawgraph.SparseVector
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dense, err = e.embedder.Embed(gctx, variant)
		return err
	})
	if e.sparse != nil {
		g.Go(func() error {
			vec, err := e.sparse.Encode(gctx, variant)
			if err != nil {
				e.logger.Warn("sparse encode failed for %q, dense-only: %v", variant, err)
				return nil
			}
			sparse = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Warn("embed failed for %q: %v", variant, err)
		return nil
	}

	docs, err := index.HybridSearch(ctx, dense, sparse, e.cfg.PerQueryLimit)
	if err != nil {
		e.logger.Warn("hybrid search failed for %q: %v", variant, err)
		return nil
	}
	return docs
}

// rerankDocs rescales candidate scores with the cross-encoder and keeps the
// top TopKRerank. Without a reranker the candidates pass through on their
// fused scores.
func (e *Engine) rerankDocs(ctx context.Context, query string, docs []lawgraph.Document) []lawgraph.Document {
	if len(docs) == 0 {
		return docs
	}

	if e.reranker != nil {
		passages := make([]string, len(docs))
		for i, doc := range docs {
			passages[i] = doc.Content
		}
		scores, err := e.reranker.Score(ctx, query, passages)
		if err != nil || len(scores) != len(docs) {
			e.logger.Warn("rerank failed, keeping fused order: %v", err)
		} else {
			for i := range docs {
				docs[i].Score = scores[i]
			}
			sort.SliceStable(docs, func(i, j int) bool {
				return docs[i].Score > docs[j].Score
			})
		}
	}

	if len(docs) > e.cfg.TopKRerank {
		docs = docs[:e.cfg.TopKRerank]
	}
	return docs
}

// boostDocs adds the statute boost to documents matching a referenced law.
// The boost is additive, so boosted scores may exceed 1.0.
func (e *Engine) boostDocs(state *conversationState, docs []lawgraph.Document) []lawgraph.Document {
	if state.Analysis == nil || len(state.Analysis.RelatedLaws) == 0 {
		return docs
	}
	for i, doc := range docs {
		if doc.StatuteName == "" {
			continue
		}
		for _, law := range state.Analysis.RelatedLaws {
			if law != "" && strings.Contains(doc.StatuteName, law) {
				docs[i].Score += e.cfg.StatuteBoost
				docs[i].Boosted = true
				break
			}
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Score > docs[j].Score
	})
	return docs
}

// filterDocs drops documents under the relevance threshold, judged on the
// boosted score.
func (e *Engine) filterDocs(docs []lawgraph.Document) []lawgraph.Document {
	kept := docs[:0]
	for _, doc := range docs {
		if doc.Score >= e.cfg.RelevanceThreshold {
			kept = append(kept, doc)
		}
	}
	return kept
}
