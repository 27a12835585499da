// Package qdrant implements the vector index over a Qdrant collection with
// named dense and sparse vectors, fused server-side with reciprocal-rank
// fusion.
package qdrant

import (
	"context"
	"fmt"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/lawding/lawgraph"
)

// Named vectors in the collection schema.
const (
	denseVectorName  = "dense"
	sparseVectorName = "sparse"
)

// Payload keys written by the ingestion pipeline.
const (
	payloadText         = "text"
	payloadLawName      = "law_name"
	payloadArticleNo    = "article_no"
	payloadArticleTitle = "article_title"
)

// Provider opens a fresh Qdrant connection per engine invocation.
type Provider struct {
	host       string
	port       int
	apiKey     string
	useTLS     bool
	collection string
}

// NewProvider creates a Provider from the engine configuration.
func NewProvider(cfg *lawgraph.Config) *Provider {
	return &Provider{
		host:       cfg.QdrantHost,
		port:       cfg.QdrantPort,
		apiKey:     cfg.QdrantAPIKey,
		useTLS:     cfg.QdrantUseTLS,
		collection: cfg.QdrantCollection,
	}
}

// Open dials Qdrant and returns a live index. The caller must Close it.
func (p *Provider) Open(ctx context.Context) (lawgraph.VectorIndex, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   p.host,
		Port:   p.port,
		APIKey: p.apiKey,
		UseTLS: p.useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant connect %s:%d: %w", p.host, p.port, err)
	}
	return &Index{client: client, collection: p.collection}, nil
}

// Index is a live Qdrant connection scoped to one collection.
type Index struct {
	client     *qdrant.Client
	collection string
}

// HybridSearch runs dense and sparse retrieval as prefetch branches fused
// with RRF. When sparse is nil or empty the query degrades to dense-only.
func (i *Index) HybridSearch(ctx context.Context, dense []float32, sparse *lawgraph.SparseVector, limit int) ([]lawgraph.Document, error) {
	query := &qdrant.QueryPoints{
		CollectionName: i.collection,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	}

	if sparse == nil || sparse.IsEmpty() {
		query.Query = qdrant.NewQueryDense(dense)
		query.Using = qdrant.PtrOf(denseVectorName)
	} else {
		query.Prefetch = []*qdrant.PrefetchQuery{
			{
				Query: qdrant.NewQueryDense(dense),
				Using: qdrant.PtrOf(denseVectorName),
				Limit: qdrant.PtrOf(uint64(limit)),
			},
			{
				Query: qdrant.NewQuerySparse(sparse.Indices, sparse.Values),
				Using: qdrant.PtrOf(sparseVectorName),
				Limit: qdrant.PtrOf(uint64(limit)),
			},
		}
		query.Query = qdrant.NewQueryFusion(qdrant.Fusion_RRF)
	}

	points, err := i.client.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("qdrant query %s: %w", i.collection, err)
	}

	docs := make([]lawgraph.Document, 0, len(points))
	for _, p := range points {
		docs = append(docs, toDocument(p))
	}
	return docs, nil
}

// StatuteExists reports whether any indexed passage belongs to the statute.
func (i *Index) StatuteExists(ctx context.Context, name string) (bool, error) {
	count, err := i.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: i.collection,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch(payloadLawName, name),
			},
		},
		Exact: qdrant.PtrOf(false),
	})
	if err != nil {
		return false, fmt.Errorf("qdrant count %s: %w", i.collection, err)
	}
	return count > 0, nil
}

// Close releases the connection.
func (i *Index) Close() error {
	return i.client.Close()
}

func toDocument(p *qdrant.ScoredPoint) lawgraph.Document {
	doc := lawgraph.Document{
		ID:    pointID(p.GetId()),
		Score: float64(p.GetScore()),
	}

	payload := p.GetPayload()
	if payload == nil {
		return doc
	}
	doc.Metadata = make(map[string]any, len(payload))
	for k, v := range payload {
		doc.Metadata[k] = valueToAny(v)
	}
	if v, ok := payload[payloadText]; ok {
		doc.Content = v.GetStringValue()
	}
	if v, ok := payload[payloadLawName]; ok {
		doc.StatuteName = v.GetStringValue()
	}
	if v, ok := payload[payloadArticleNo]; ok {
		doc.ArticleNo = v.GetStringValue()
	}
	if v, ok := payload[payloadArticleTitle]; ok {
		doc.ArticleTitle = v.GetStringValue()
	}
	return doc
}

func valueToAny(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	default:
		return v.String()
	}
}

func pointID(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if uuid := id.GetUuid(); uuid != "" {
		return uuid
	}
	return strconv.FormatUint(id.GetNum(), 10)
}
