package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/lawding/lawgraph"
)

// clarify asks the user for the facts the analyzer found missing. The
// question itself is generated so it reads naturally against the query.
func (e *Engine) clarify(ctx context.Context, state *conversationState, onDelta func(string)) statePatch {
	var missing []string
	if state.Analysis != nil {
		missing = state.Analysis.MissingInfo
	}

	prompt := e.cfg.Prompts.ClarifyGenerator
	if len(missing) > 0 {
		prompt += fmt.Sprintf("\n\n[부족한 정보]\n- %s", strings.Join(missing, "\n- "))
	}

	messages := make([]lawgraph.Message, 0, len(state.Messages)+1)
	messages = append(messages, lawgraph.SystemMessage(prompt))
	messages = append(messages, state.Messages...)

	answer, err := e.complete(ctx, messages, onDelta)
	if err != nil {
		e.logger.Warn("clarify generation failed, using fallback: %v", err)
		answer = fallbackClarify(missing)
		if onDelta != nil {
			onDelta(answer)
		}
	}

	return statePatch{answer: ptr(answer)}
}

// fallbackClarify is the canned clarification when the model is unavailable.
func fallbackClarify(missing []string) string {
	if len(missing) == 0 {
		return "정확한 답변을 위해 상황을 조금 더 구체적으로 알려주시겠어요?"
	}
	return fmt.Sprintf("정확한 답변을 위해 다음 정보를 알려주시겠어요?\n- %s",
		strings.Join(missing, "\n- "))
}

// complete routes through the streaming API when a delta sink is attached.
func (e *Engine) complete(ctx context.Context, messages []lawgraph.Message, onDelta func(string)) (string, error) {
	if onDelta != nil {
		return e.model.CompleteStream(ctx, messages, onDelta)
	}
	return e.model.Complete(ctx, messages)
}
