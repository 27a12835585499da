package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/lawding/lawgraph"
)

const (
	evalDocLimit     = 5
	evalSnippetRunes = 100
)

// evaluate scores the generated answer against the question and the retrieved
// documents. An evaluator failure counts as a pass so a working answer is
// never discarded over a broken critic.
func (e *Engine) evaluate(ctx context.Context, state *conversationState) statePatch {
	messages := []lawgraph.Message{
		lawgraph.SystemMessage(e.cfg.Prompts.Evaluate),
		lawgraph.UserMessage(fmt.Sprintf(
			"## 질문\n%s\n\n## 답변\n%s\n\n## 검색된 문서 요약\n%s",
			state.UserQuery, state.GeneratedAnswer, evalContext(state.RetrievedDocs))),
	}

	var eval lawgraph.AnswerEvaluation
	if err := e.model.CompleteStructured(ctx, messages, "answer_evaluation", &eval); err != nil {
		e.logger.Warn("evaluation failed, accepting answer: %v", err)
		eval = lawgraph.AnswerEvaluation{
			HasLegalBasis:      true,
			CitesRetrievedDocs: true,
			IsRelevant:         true,
			QualityScore:       3,
		}
	}

	e.logger.Info("evaluate: score=%d passed=%v more_search=%v retry=%d",
		eval.QualityScore, eval.Passed(), eval.NeedsMoreSearch, state.RetryCount+1)

	return statePatch{evaluation: &eval, retryDelta: 1}
}

// evalContext summarizes the top documents for the evaluator.
func evalContext(docs []lawgraph.Document) string {
	if len(docs) == 0 {
		return "(검색된 문서 없음)"
	}
	if len(docs) > evalDocLimit {
		docs = docs[:evalDocLimit]
	}
	var sb strings.Builder
	for _, doc := range docs {
		fmt.Fprintf(&sb, "- %s: %s\n", doc.Source(), truncateRunes(doc.Content, evalSnippetRunes))
	}
	return sb.String()
}
