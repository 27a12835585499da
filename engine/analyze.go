package engine

import (
	"context"

	"github.com/lawding/lawgraph"
)

// analyze classifies the query and resolves multi-turn context into a
// standalone core question. An analyzer failure degrades to a permissive
// default so the pipeline keeps moving.
func (e *Engine) analyze(ctx context.Context, state *conversationState) statePatch {
	messages := make([]lawgraph.Message, 0, len(state.Messages)+1)
	messages = append(messages, lawgraph.SystemMessage(e.cfg.Prompts.Analyze))
	messages = append(messages, state.Messages...)

	var analysis lawgraph.QueryAnalysis
	if err := e.model.CompleteStructured(ctx, messages, "query_analysis", &analysis); err != nil {
		e.logger.Warn("analyze failed, using defaults: %v", err)
		analysis = lawgraph.QueryAnalysis{
			Category:        lawgraph.CategoryLabor,
			IntentType:      lawgraph.IntentGeneral,
			QueryComplexity: lawgraph.ComplexityMedium,
		}
	}

	e.logger.Info("analyze: category=%s intent=%s complexity=%s ambiguous=%v",
		analysis.Category, analysis.IntentType, analysis.QueryComplexity, analysis.IsAmbiguous)

	return statePatch{analysis: &analysis}
}
