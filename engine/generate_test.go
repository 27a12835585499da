package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawding/lawgraph"
)

func generateState(docs []lawgraph.Document) *conversationState {
	analysis := laborAnalysis()
	return &conversationState{
		Messages:      []lawgraph.Message{lawgraph.UserMessage("퇴직금 언제 받아요?")},
		UserQuery:     "퇴직금 언제 받아요?",
		Analysis:      &analysis,
		RetrievedDocs: docs,
	}
}

func TestGenerate_IntentSelectsPrompt(t *testing.T) {
	model := &fakeModel{completeText: "절차 안내."}
	eng := newTestEngine(model, &fakeProvider{index: &fakeIndex{}}, nil)

	state := generateState(testDocs())
	state.Analysis.IntentType = lawgraph.IntentProcedure

	eng.generate(context.Background(), state, nil)

	prompt := model.lastSystemPrompt()
	assert.Contains(t, prompt, "절차문의 특화 지침")
}

func TestGenerate_UnknownIntentFallsBackToGeneral(t *testing.T) {
	model := &fakeModel{completeText: "답변."}
	eng := newTestEngine(model, &fakeProvider{index: &fakeIndex{}}, nil)

	state := generateState(testDocs())
	state.Analysis.IntentType = "알 수 없는 유형"

	eng.generate(context.Background(), state, nil)

	prompt := model.lastSystemPrompt()
	assert.Contains(t, prompt, "핵심 원칙")
	assert.NotContains(t, prompt, "특화 지침")
}

func TestGenerate_ContextNumbersDocuments(t *testing.T) {
	model := &fakeModel{completeText: "답변."}
	eng := newTestEngine(model, &fakeProvider{index: &fakeIndex{}}, nil)

	eng.generate(context.Background(), generateState(testDocs()), nil)

	prompt := model.lastSystemPrompt()
	assert.Contains(t, prompt, "[문서 1] 근로기준법 제36조")
	assert.Contains(t, prompt, "[문서 2] 근로자퇴직급여 보장법 제4조")
}

func TestGenerate_ContextTruncatesLongPassages(t *testing.T) {
	model := &fakeModel{completeText: "답변."}
	eng := newTestEngine(model, &fakeProvider{index: &fakeIndex{}}, nil)

	long := strings.Repeat("가", eng.cfg.ContextCharLimit+50)
	state := generateState([]lawgraph.Document{
		{ID: "doc-1", Content: long, StatuteName: "근로기준법", ArticleNo: "36", Score: 0.9},
	})

	eng.generate(context.Background(), state, nil)

	prompt := model.lastSystemPrompt()
	assert.NotContains(t, prompt, long)
	assert.Contains(t, prompt, strings.Repeat("가", eng.cfg.ContextCharLimit)+"...")
}

func TestGenerate_CaseLawNoticeAppended(t *testing.T) {
	model := &fakeModel{completeText: "답변."}
	eng := newTestEngine(model, &fakeProvider{index: &fakeIndex{}}, nil)

	state := generateState(testDocs())
	state.Analysis.NeedsCaseLaw = true

	eng.generate(context.Background(), state, nil)

	assert.Contains(t, model.lastSystemPrompt(), "판례 검색이 필요하나")
}

func TestGenerate_OutOfScopeUsesTemplate(t *testing.T) {
	model := &fakeModel{}
	eng := newTestEngine(model, &fakeProvider{index: &fakeIndex{}}, nil)

	state := generateState(testDocs())
	state.Analysis.Category = lawgraph.CategoryOtherLegal
	state.Analysis.RelatedLaws = []string{"도로교통법"}

	patch := eng.generate(context.Background(), state, nil)

	require.NotNil(t, patch.answer)
	assert.Contains(t, *patch.answer, "도로교통법")
	assert.Contains(t, *patch.answer, "상담 범위를 벗어납니다")
	// Templated answers never touch the model.
	assert.Empty(t, model.completeMessages)
}

func TestGenerate_OutOfScopeDetectsStatuteFromQuery(t *testing.T) {
	model := &fakeModel{}
	eng := newTestEngine(model, &fakeProvider{index: &fakeIndex{}}, nil)

	state := generateState(nil)
	state.Analysis.Category = lawgraph.CategoryOtherLegal
	state.Analysis.RelatedLaws = nil
	state.UserQuery = "상속세법 공제 한도가 궁금해요"

	patch := eng.generate(context.Background(), state, nil)

	require.NotNil(t, patch.answer)
	assert.Contains(t, *patch.answer, "상속세법")
}

func TestGenerate_OutOfScopeDefaultStatuteLabel(t *testing.T) {
	eng := newTestEngine(&fakeModel{}, &fakeProvider{index: &fakeIndex{}}, nil)

	state := generateState(nil)
	state.Analysis.Category = lawgraph.CategoryOtherLegal
	state.Analysis.RelatedLaws = nil
	state.UserQuery = "궁금한 게 있어요"

	patch := eng.generate(context.Background(), state, nil)

	require.NotNil(t, patch.answer)
	assert.Contains(t, *patch.answer, "해당 법령")
}

func TestGenerate_EmptyDocsInDomainUsesNoDocsTemplate(t *testing.T) {
	model := &fakeModel{}
	eng := newTestEngine(model, &fakeProvider{index: &fakeIndex{}}, nil)

	state := generateState(nil)
	patch := eng.generate(context.Background(), state, nil)

	require.NotNil(t, patch.answer)
	assert.Contains(t, *patch.answer, state.UserQuery)
	assert.Contains(t, *patch.answer, "찾지 못했습니다")
	assert.Empty(t, model.completeMessages)
}

func TestGenerate_CasualIgnoresDocuments(t *testing.T) {
	model := &fakeModel{completeText: "안녕하세요!"}
	eng := newTestEngine(model, &fakeProvider{index: &fakeIndex{}}, nil)

	state := generateState(testDocs())
	state.Analysis.Category = lawgraph.CategoryCasual

	patch := eng.generate(context.Background(), state, nil)

	require.NotNil(t, patch.answer)
	assert.Equal(t, "안녕하세요!", *patch.answer)
	assert.NotContains(t, model.lastSystemPrompt(), "[문서 1]")
}

func TestGenerate_ModelFailureApologizes(t *testing.T) {
	model := &fakeModel{completeErr: assert.AnError}
	eng := newTestEngine(model, &fakeProvider{index: &fakeIndex{}}, nil)

	var deltas []string
	patch := eng.generate(context.Background(), generateState(testDocs()),
		func(delta string) { deltas = append(deltas, delta) })

	require.NotNil(t, patch.answer)
	assert.Contains(t, *patch.answer, "오류가 발생했습니다")
	require.Len(t, deltas, 1)
	assert.Equal(t, *patch.answer, deltas[0])
}
