package lawgraph

import "fmt"

// Document is a retrieved statute passage with its payload metadata.
type Document struct {
	// ID is a stable identifier from the vector index; may be empty for
	// payloads indexed without one.
	ID string `json:"id"`

	// Content is the passage text.
	Content string `json:"content"`

	// StatuteName is the name of the statute this passage belongs to.
	StatuteName string `json:"statute_name"`

	// ArticleNo is the article number within the statute ("36", "26의2", ...).
	ArticleNo string `json:"article_no"`

	// ArticleTitle is the article heading, when the index carries one.
	ArticleTitle string `json:"article_title"`

	// Score is the relevance score. Roughly [0,1] as produced by retrieval and
	// reranking; statute boosting is additive and may push it above 1.0.
	Score float64 `json:"score"`

	// Boosted marks documents whose score received the referenced-statute boost.
	Boosted bool `json:"boosted"`

	// Metadata carries any remaining payload fields verbatim.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Key returns the deduplication key used when merging multi-query results:
// the index ID when present, otherwise a content prefix.
func (d Document) Key() string {
	if d.ID != "" {
		return d.ID
	}
	r := []rune(d.Content)
	if len(r) > 20 {
		r = r[:20]
	}
	return string(r)
}

// Source renders a short human-readable citation for the document.
func (d Document) Source() string {
	if d.StatuteName == "" {
		return "문서"
	}
	if d.ArticleNo == "" {
		return d.StatuteName
	}
	return fmt.Sprintf("%s 제%s조", d.StatuteName, d.ArticleNo)
}

// SparseVector is a weighted bag of token indices used for lexical matching.
type SparseVector struct {
	Indices []uint32  `json:"indices"`
	Values  []float32 `json:"values"`
}

// IsEmpty reports whether the vector carries no weights.
func (v *SparseVector) IsEmpty() bool {
	return v == nil || len(v.Indices) == 0
}
