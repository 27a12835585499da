package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/lawding/lawgraph"
)

// statutePattern extracts a statute-looking token ("...법") from free text
// when the analyzer produced no related laws.
var statutePattern = regexp.MustCompile(`([가-힣]+법)`)

// generate produces the answer. Casual chat and out-of-domain or empty-result
// queries take templated branches; in-domain answers are grounded on the
// retrieved documents with an intent-specialized prompt.
func (e *Engine) generate(ctx context.Context, state *conversationState, onDelta func(string)) statePatch {
	switch {
	case state.category() == lawgraph.CategoryCasual:
		return e.generateCasual(ctx, state, onDelta)
	case state.category() == lawgraph.CategoryOtherLegal || len(state.RetrievedDocs) == 0:
		return e.generateNoResults(state, onDelta)
	default:
		return e.generateGrounded(ctx, state, onDelta)
	}
}

// generateCasual answers small talk without any retrieval context.
func (e *Engine) generateCasual(ctx context.Context, state *conversationState, onDelta func(string)) statePatch {
	messages := make([]lawgraph.Message, 0, len(state.Messages)+1)
	messages = append(messages, lawgraph.SystemMessage(e.cfg.Prompts.DailyLife))
	messages = append(messages, state.Messages...)

	answer, err := e.complete(ctx, messages, onDelta)
	if err != nil {
		return e.apologize(err, onDelta)
	}
	return statePatch{answer: ptr(answer)}
}

// generateNoResults renders the templated answer for out-of-scope questions
// and in-domain searches that found nothing.
func (e *Engine) generateNoResults(state *conversationState, onDelta func(string)) statePatch {
	var answer string
	if state.category() == lawgraph.CategoryOtherLegal {
		answer = fmt.Sprintf(e.cfg.Prompts.NoResultsOutOfScope, e.detectedStatute(state))
	} else {
		answer = fmt.Sprintf(e.cfg.Prompts.NoResultsNoDocs, state.UserQuery)
	}
	if onDelta != nil {
		onDelta(answer)
	}
	return statePatch{answer: ptr(answer)}
}

// detectedStatute names the statute the out-of-scope question was about.
func (e *Engine) detectedStatute(state *conversationState) string {
	if state.Analysis != nil && len(state.Analysis.RelatedLaws) > 0 && state.Analysis.RelatedLaws[0] != "" {
		return state.Analysis.RelatedLaws[0]
	}
	if m := statutePattern.FindString(state.UserQuery); m != "" {
		return m
	}
	return "해당 법령"
}

// generateGrounded builds the numbered document context and answers with the
// intent-specialized prompt over the full conversation.
func (e *Engine) generateGrounded(ctx context.Context, state *conversationState, onDelta func(string)) statePatch {
	intent := lawgraph.IntentGeneral
	if state.Analysis != nil && state.Analysis.IntentType != "" {
		intent = state.Analysis.IntentType
	}

	prompt := e.cfg.Prompts.ForIntent(intent)
	prompt += "\n\n## 검색된 문서\n" + e.buildContext(state.RetrievedDocs)
	if state.Analysis != nil && state.Analysis.NeedsCaseLaw {
		prompt += "\n\n" + e.cfg.Prompts.CaseLawNotice
	}

	messages := make([]lawgraph.Message, 0, len(state.Messages)+1)
	messages = append(messages, lawgraph.SystemMessage(prompt))
	messages = append(messages, state.Messages...)

	answer, err := e.complete(ctx, messages, onDelta)
	if err != nil {
		return e.apologize(err, onDelta)
	}
	return statePatch{answer: ptr(answer)}
}

// buildContext renders the retrieved documents as numbered blocks the
// citation rules in the prompt refer to.
func (e *Engine) buildContext(docs []lawgraph.Document) string {
	var sb strings.Builder
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[문서 %d] %s", i+1, doc.Source())
		if doc.ArticleTitle != "" {
			fmt.Fprintf(&sb, "(%s)", doc.ArticleTitle)
		}
		sb.WriteString("\n")
		sb.WriteString(truncateRunes(doc.Content, e.cfg.ContextCharLimit))
	}
	return sb.String()
}

// apologize wraps an unexpected generation failure in the apology template.
func (e *Engine) apologize(err error, onDelta func(string)) statePatch {
	e.logger.Error("generation failed: %v", err)
	answer := fmt.Sprintf(e.cfg.Prompts.Apology, err.Error())
	if onDelta != nil {
		onDelta(answer)
	}
	return statePatch{answer: ptr(answer)}
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
