package lawgraph

// Query categories produced by the analyzer. The taxonomy is closed: anything
// the classifier cannot place in the labor-law domain falls into one of the
// two out-of-domain buckets.
const (
	// CategoryLabor is an in-domain labor-law question.
	CategoryLabor = "노동법"
	// CategoryOtherLegal is a legal question outside the labor-law corpus.
	CategoryOtherLegal = "노동법 외"
	// CategoryCasual is small talk / non-legal conversation.
	CategoryCasual = "기타(일상)"
)

// Intent types produced by the analyzer.
const (
	IntentLawLookup = "법령조회"
	IntentProcedure = "절차문의"
	IntentSituation = "상황판단"
	IntentRights    = "권리확인"
	IntentDispute   = "분쟁해결"
	IntentGeneral   = "일반상담"
)

// Complexity tiers produced by the analyzer.
const (
	ComplexitySimple  = "simple"
	ComplexityMedium  = "medium"
	ComplexityComplex = "complex"
)

// QueryAnalysis is the structured result of the analyze step.
type QueryAnalysis struct {
	// Category is one of the Category* constants.
	Category string `json:"category"`

	// IntentType is one of the Intent* constants.
	IntentType string `json:"intent_type"`

	// IsAmbiguous is true only when facts essential for a legal judgment are
	// missing, not merely when the input is short.
	IsAmbiguous bool `json:"is_ambiguous"`

	// MissingInfo lists the facts required before the question can be judged.
	MissingInfo []string `json:"missing_info"`

	// QueryComplexity is one of the Complexity* constants.
	QueryComplexity string `json:"query_complexity"`

	// UserSituation summarizes the user's situation in one or two sentences.
	UserSituation string `json:"user_situation"`

	// CoreQuestion is a context-resolved, standalone rephrasing of the query.
	// When present it replaces the raw query for retrieval so that pronoun and
	// ellipsis resolution from multi-turn context does not leak into search.
	CoreQuestion string `json:"core_question"`

	// RelatedLaws lists statute names the query references.
	RelatedLaws []string `json:"related_laws"`

	// NeedsCaseLaw is true when the question calls for court precedent.
	// The corpus carries statutes only, so the generator discloses the gap.
	NeedsCaseLaw bool `json:"needs_case_law"`
}

// SearchQuery returns the retrieval query: the core question when the
// analyzer produced one, otherwise the raw query passed in.
func (a *QueryAnalysis) SearchQuery(raw string) string {
	if a != nil && a.CoreQuestion != "" {
		return a.CoreQuestion
	}
	return raw
}

// Complexity returns the analyzed complexity, defaulting to medium.
func (a *QueryAnalysis) Complexity() string {
	if a == nil || a.QueryComplexity == "" {
		return ComplexityMedium
	}
	return a.QueryComplexity
}

// ExpandedQuery is the structured result of query expansion.
type ExpandedQuery struct {
	// OriginalQuery echoes the input.
	OriginalQuery string `json:"original_query"`

	// KeywordQuery is a particle-stripped keyword combination for sparse
	// (lexical) matching.
	KeywordQuery string `json:"keyword_query"`

	// ExpandedQueries are 3-4 semantically expanded variants covering
	// synonyms and statutory phrasing.
	ExpandedQueries []string `json:"expanded_queries"`
}

// AnswerEvaluation is the structured result of the evaluate step.
type AnswerEvaluation struct {
	// HasLegalBasis reports whether the answer names concrete statutes/articles.
	HasLegalBasis bool `json:"has_legal_basis"`

	// CitesRetrievedDocs reports whether retrieved passages are reflected.
	CitesRetrievedDocs bool `json:"cites_retrieved_docs"`

	// IsRelevant reports whether the answer addresses the question directly.
	IsRelevant bool `json:"is_relevant"`

	// NeedsMoreSearch requests another retrieval pass.
	NeedsMoreSearch bool `json:"needs_more_search"`

	// QualityScore is an overall score in [1,5].
	QualityScore int `json:"quality_score"`

	// ImprovementSuggestion is free-form critique, logged only.
	ImprovementSuggestion string `json:"improvement_suggestion"`
}

// Passed reports whether all three pass criteria hold.
func (e *AnswerEvaluation) Passed() bool {
	return e != nil && e.HasLegalBasis && e.CitesRetrievedDocs && e.IsRelevant
}

// Message roles for conversation turns.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserMessage builds a user turn.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant turn.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// SystemMessage builds a system turn.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}
