package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/lawding/lawgraph/registry"
)

const maxStatuteSuggestions = 3

// verifyLaw checks the first statute the analyzer extracted against the
// registry. A close match silently corrects the query; an ambiguous one ends
// the run with suggestions; an unknown one is checked against the index
// before giving up.
func (e *Engine) verifyLaw(ctx context.Context, state *conversationState) statePatch {
	laws := []string{}
	if state.Analysis != nil {
		laws = state.Analysis.RelatedLaws
	}
	if len(laws) == 0 {
		return statePatch{nextAction: ptr(actionSearch)}
	}

	name := registry.CleanStatuteName(laws[0])
	if name == "" || e.registry.Contains(name) {
		return statePatch{nextAction: ptr(actionSearch)}
	}

	best, ok := e.registry.BestMatch(name)
	if ok && best.Ratio >= registry.AutoCorrectRatio {
		e.logger.Info("statute corrected: %q -> %q (ratio %.3f)", name, best.Name, best.Ratio)
		return e.correctStatute(state, name, best.Name)
	}
	if ok {
		e.logger.Info("statute ambiguous: %q, best %q (ratio %.3f)", name, best.Name, best.Ratio)
		return statePatch{
			answer:     ptr(e.suggestionMessage(name)),
			nextAction: ptr(actionClarifyEnd),
		}
	}

	// Not in the registry at all; the index may still know it.
	exists, err := e.statuteInIndex(ctx, name)
	if err != nil {
		e.logger.Warn("statute existence check failed for %q: %v", name, err)
		return statePatch{nextAction: ptr(actionSearch)}
	}
	if exists {
		return statePatch{nextAction: ptr(actionSearch)}
	}

	e.logger.Info("statute not found: %q", name)
	return statePatch{
		answer:     ptr(fmt.Sprintf(e.cfg.Prompts.StatuteNotFound, name)),
		nextAction: ptr(actionClarifyEnd),
	}
}

// correctStatute rewrites the first occurrence of the misspelled statute in
// the query and the analysis so retrieval sees the canonical name.
func (e *Engine) correctStatute(state *conversationState, from, to string) statePatch {
	query := strings.Replace(state.UserQuery, from, to, 1)

	analysis := *state.Analysis
	analysis.RelatedLaws = append([]string{}, state.Analysis.RelatedLaws...)
	analysis.RelatedLaws[0] = to
	if analysis.CoreQuestion != "" {
		analysis.CoreQuestion = strings.Replace(analysis.CoreQuestion, from, to, 1)
	}

	return statePatch{
		userQuery:  ptr(query),
		analysis:   &analysis,
		nextAction: ptr(actionSearch),
	}
}

func (e *Engine) suggestionMessage(name string) string {
	matches := e.registry.CloseMatches(name, maxStatuteSuggestions, registry.SuggestionCutoff)
	var sb strings.Builder
	for i, m := range matches {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, m.Name)
	}
	return fmt.Sprintf(e.cfg.Prompts.StatuteSuggestion, name, sb.String())
}

// statuteInIndex opens a fresh index connection for the existence check.
func (e *Engine) statuteInIndex(ctx context.Context, name string) (bool, error) {
	index, err := e.index.Open(ctx)
	if err != nil {
		return false, fmt.Errorf("open index: %w", err)
	}
	defer index.Close()
	return index.StatuteExists(ctx, name)
}
