// LawGraph - Retrieval-Augmented Legal Question Answering in Go
//
// LawGraph answers Korean labor-law questions by retrieving relevant statute
// passages from a hybrid (dense + sparse) vector index and generating a cited,
// structured answer. The core is an explicit finite-state machine that analyzes
// a query, optionally verifies a referenced statute against a registry,
// performs multi-query hybrid search with rank fusion and cross-encoder
// reranking, generates an intent-conditioned answer, and re-searches when a
// quality evaluation asks for it - all under a bounded retry budget.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/lawding/lawgraph
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"os"
//
//		goopenai "github.com/sashabaranov/go-openai"
//
//		"github.com/lawding/lawgraph"
//		"github.com/lawding/lawgraph/encoder"
//		"github.com/lawding/lawgraph/engine"
//		"github.com/lawding/lawgraph/llm/openai"
//		"github.com/lawding/lawgraph/store/qdrant"
//	)
//
//	func main() {
//		cfg := lawgraph.DefaultConfig()
//		client := goopenai.NewClient(os.Getenv("OPENAI_API_KEY"))
//
//		eng, _ := engine.New(engine.Options{
//			Config:   cfg,
//			Model:    openai.New(client, cfg.LLMModel),
//			Embedder: encoder.NewOpenAIEmbedder(client, cfg.EmbeddingModel, cfg.VectorDim),
//			Index:    qdrant.NewProvider(cfg),
//		})
//
//		result, _ := eng.Respond(context.Background(), engine.Request{
//			Query: "퇴직금 지급 기한이 궁금해요",
//		})
//		fmt.Println(result.Answer)
//	}
//
// # Packages
//
//   - lawgraph: core types, collaborator interfaces, configuration, prompts
//   - engine: the orchestration state machine
//   - registry: statute registry with fuzzy-match verification
//   - llm/openai, llm/langchain: generative model adapters
//   - encoder: dense and sparse query encoders
//   - rerank: cross-encoder reranker client
//   - store/qdrant: hybrid vector index client
//   - store/redis, store/postgres: conversation stores
//   - log: logging abstraction with a golog adapter
package lawgraph
