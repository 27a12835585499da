package engine

import "github.com/lawding/lawgraph"

// node is a pipeline stage. The set is closed: routing is a switch over these
// constants, and every run ends at nodeEnd.
type node string

const (
	nodeAnalyze   node = "analyze"
	nodeClarify   node = "clarify"
	nodeVerifyLaw node = "verify_law"
	nodeSearch    node = "search"
	nodeGenerate  node = "generate"
	nodeEvaluate  node = "evaluate"
	nodeEnd       node = "end"
)

// Next actions a node can request from the router.
const (
	actionSearch     = "search"
	actionClarifyEnd = "clarify_end"
)

// conversationState is the working state of one engine run. Node handlers
// never mutate it directly; they return a statePatch the runner applies.
type conversationState struct {
	// Messages is the conversation so far, ending with the current user turn.
	Messages []lawgraph.Message
	// UserQuery is the current question, possibly rewritten by statute
	// verification.
	UserQuery string
	// Analysis is the analyzer's output, nil until the analyze node ran.
	Analysis *lawgraph.QueryAnalysis
	// RetrievedDocs is the final document set of the latest search pass.
	RetrievedDocs []lawgraph.Document
	// GeneratedAnswer is the answer text, canned or generated.
	GeneratedAnswer string
	// NextAction carries a routing request from verification.
	NextAction string
	// Evaluation is the evaluator's output, nil until the evaluate node ran.
	Evaluation *lawgraph.AnswerEvaluation
	// RetryCount counts evaluate passes.
	RetryCount int
}

// statePatch is a partial update to the conversation state. Zero-value fields
// leave the state untouched; set pointers and flags overwrite.
type statePatch struct {
	userQuery  *string
	analysis   *lawgraph.QueryAnalysis
	docs       []lawgraph.Document
	docsSet    bool
	answer     *string
	nextAction *string
	evaluation *lawgraph.AnswerEvaluation
	retryDelta int
}

// apply merges a patch into the state.
func (s *conversationState) apply(p statePatch) {
	if p.userQuery != nil {
		s.UserQuery = *p.userQuery
	}
	if p.analysis != nil {
		s.Analysis = p.analysis
	}
	if p.docsSet {
		s.RetrievedDocs = p.docs
	}
	if p.answer != nil {
		s.GeneratedAnswer = *p.answer
	}
	if p.nextAction != nil {
		s.NextAction = *p.nextAction
	}
	if p.evaluation != nil {
		s.Evaluation = p.evaluation
	}
	s.RetryCount += p.retryDelta
}

// category returns the analyzed category, defaulting to labor law when the
// analyzer has not run or failed.
func (s *conversationState) category() string {
	if s.Analysis == nil || s.Analysis.Category == "" {
		return lawgraph.CategoryLabor
	}
	return s.Analysis.Category
}

func ptr[T any](v T) *T {
	return &v
}
