// Package engine runs the legal-question pipeline: analyze, clarify, law
// verification, hybrid search, answer generation, and evaluation with bounded
// re-search, wired as an explicit state machine over a closed node set.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lawding/lawgraph"
	"github.com/lawding/lawgraph/log"
	"github.com/lawding/lawgraph/registry"
)

// Options wires the engine's collaborators. Model and Index are required;
// everything else has a degraded or default mode.
type Options struct {
	// Config holds all tunables. Nil means DefaultConfig.
	Config *lawgraph.Config
	// Model is the generative LLM. Required.
	Model lawgraph.ChatModel
	// Embedder produces dense query vectors. Required for search.
	Embedder lawgraph.Embedder
	// Sparse produces lexical query vectors. Nil degrades to dense-only.
	Sparse lawgraph.SparseEncoder
	// Reranker cross-encodes candidates. Nil degrades to pass-through.
	Reranker lawgraph.Reranker
	// Index opens vector-index connections. Required.
	Index lawgraph.IndexProvider
	// Registry is the statute registry. Nil means the built-in list.
	Registry *registry.StatuteRegistry
	// Store persists session turns. Nil disables session handling.
	Store lawgraph.ConversationStore
	// Logger receives routing and degradation logs. Nil means the package
	// default.
	Logger log.Logger
}

// Engine orchestrates one pipeline run per request. Safe for concurrent use.
type Engine struct {
	cfg      *lawgraph.Config
	model    lawgraph.ChatModel
	embedder lawgraph.Embedder
	sparse   lawgraph.SparseEncoder
	reranker lawgraph.Reranker
	index    lawgraph.IndexProvider
	registry *registry.StatuteRegistry
	store    lawgraph.ConversationStore
	logger   log.Logger
}

// New creates an engine from options.
func New(opts Options) (*Engine, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = lawgraph.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if opts.Model == nil {
		return nil, errors.New("engine: Model is required")
	}
	if opts.Index == nil {
		return nil, errors.New("engine: Index is required")
	}
	reg := opts.Registry
	if reg == nil {
		reg = registry.NewStatuteRegistry(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	return &Engine{
		cfg:      cfg,
		model:    opts.Model,
		embedder: opts.Embedder,
		sparse:   opts.Sparse,
		reranker: opts.Reranker,
		index:    opts.Index,
		registry: reg,
		store:    opts.Store,
		logger:   logger,
	}, nil
}

// Request is one user turn.
type Request struct {
	// SessionID keys the stored conversation. Empty with a Store configured
	// starts a new session.
	SessionID string
	// Query is the user's question. Required.
	Query string
	// History is prior turns supplied by the caller. Ignored when a Store is
	// configured and the session has stored history.
	History []lawgraph.Message
}

// Result is the outcome of one run.
type Result struct {
	// Answer is the final answer text.
	Answer string
	// SessionID echoes or assigns the session.
	SessionID string
	// Analysis is the query analysis, nil only if the run ended before analyze.
	Analysis *lawgraph.QueryAnalysis
	// Documents are the documents behind the answer.
	Documents []lawgraph.Document
	// Evaluation is the last answer evaluation, nil when evaluation was skipped.
	Evaluation *lawgraph.AnswerEvaluation
	// Retries is how many evaluation passes ran.
	Retries int
}

// Respond runs the pipeline for one request.
func (e *Engine) Respond(ctx context.Context, req Request) (*Result, error) {
	return e.respond(ctx, req, nil)
}

// RespondStream runs the pipeline, streaming answer deltas through fn as the
// generation node produces them. Canned answers arrive as a single delta.
func (e *Engine) RespondStream(ctx context.Context, req Request, fn func(delta string)) (*Result, error) {
	return e.respond(ctx, req, fn)
}

func (e *Engine) respond(ctx context.Context, req Request, onDelta func(string)) (*Result, error) {
	if req.Query == "" {
		return nil, errors.New("engine: empty query")
	}

	sessionID := req.SessionID
	history := req.History
	if e.store != nil {
		if sessionID == "" {
			sessionID = uuid.NewString()
		} else {
			stored, err := e.store.History(ctx, sessionID, e.cfg.HistoryLimit)
			if err != nil {
				e.logger.Warn("history load failed for session %s: %v", sessionID, err)
			} else if len(stored) > 0 {
				history = stored
			}
		}
	}

	state := &conversationState{
		Messages:  append(append([]lawgraph.Message{}, history...), lawgraph.UserMessage(req.Query)),
		UserQuery: req.Query,
	}

	if err := e.run(ctx, state, onDelta); err != nil {
		return nil, err
	}

	if e.store != nil {
		if err := e.store.Append(ctx, sessionID, lawgraph.UserMessage(req.Query)); err != nil {
			e.logger.Warn("persist user turn failed for session %s: %v", sessionID, err)
		}
		if err := e.store.Append(ctx, sessionID, lawgraph.AssistantMessage(state.GeneratedAnswer)); err != nil {
			e.logger.Warn("persist assistant turn failed for session %s: %v", sessionID, err)
		}
	}

	return &Result{
		Answer:     state.GeneratedAnswer,
		SessionID:  sessionID,
		Analysis:   state.Analysis,
		Documents:  state.RetrievedDocs,
		Evaluation: state.Evaluation,
		Retries:    state.RetryCount,
	}, nil
}

// run drives the state machine from analyze to end.
func (e *Engine) run(ctx context.Context, state *conversationState, onDelta func(string)) error {
	current := nodeAnalyze
	for current != nodeEnd {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.logger.Debug("node %s", current)

		var next node
		switch current {
		case nodeAnalyze:
			state.apply(e.analyze(ctx, state))
			next = e.routeAfterAnalyze(state)
		case nodeClarify:
			state.apply(e.clarify(ctx, state, onDelta))
			next = nodeEnd
		case nodeVerifyLaw:
			state.apply(e.verifyLaw(ctx, state))
			next = e.routeAfterVerify(state, onDelta)
		case nodeSearch:
			state.apply(e.search(ctx, state))
			next = nodeGenerate
		case nodeGenerate:
			state.apply(e.generate(ctx, state, onDelta))
			next = e.routeAfterGenerate(state)
		case nodeEvaluate:
			state.apply(e.evaluate(ctx, state))
			next = e.routeAfterEvaluate(state)
		default:
			return fmt.Errorf("engine: unknown node %q", current)
		}

		e.logger.Debug("node %s -> %s", current, next)
		current = next
	}
	return nil
}

// routeAfterAnalyze: ambiguous queries go to clarification, out-of-domain
// queries straight to generation, labor-law queries to statute verification.
func (e *Engine) routeAfterAnalyze(state *conversationState) node {
	if state.Analysis != nil && state.Analysis.IsAmbiguous {
		return nodeClarify
	}
	switch state.category() {
	case lawgraph.CategoryOtherLegal, lawgraph.CategoryCasual:
		return nodeGenerate
	default:
		return nodeVerifyLaw
	}
}

// routeAfterVerify: verification either clears the way to search or ends the
// run with the guidance message it produced.
func (e *Engine) routeAfterVerify(state *conversationState, onDelta func(string)) node {
	if state.NextAction == actionClarifyEnd {
		if onDelta != nil && state.GeneratedAnswer != "" {
			onDelta(state.GeneratedAnswer)
		}
		return nodeEnd
	}
	return nodeSearch
}

// routeAfterGenerate: only non-trivial labor-law answers are evaluated.
func (e *Engine) routeAfterGenerate(state *conversationState) node {
	if state.category() != lawgraph.CategoryLabor {
		return nodeEnd
	}
	if state.Analysis.Complexity() == lawgraph.ComplexitySimple {
		return nodeEnd
	}
	return nodeEvaluate
}

// routeAfterEvaluate: the retry cap is checked before the pass criteria, so a
// capped run ends even when the evaluator wants more search.
func (e *Engine) routeAfterEvaluate(state *conversationState) node {
	if state.RetryCount >= e.cfg.MaxRetry {
		e.logger.Info("retry cap reached (%d), ending", state.RetryCount)
		return nodeEnd
	}
	if state.Evaluation.Passed() && !state.Evaluation.NeedsMoreSearch {
		return nodeEnd
	}
	return nodeSearch
}
