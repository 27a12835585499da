// Package registry holds the canonical statute names known to the corpus and
// implements the fuzzy matching used by law verification.
package registry

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Matching thresholds. The ratio is difflib's similarity ratio (2*M/T over
// matching characters), so the cutoffs carry the same meaning as in Python's
// difflib-based tooling.
const (
	// AutoCorrectRatio and above: silently correct to the best match.
	AutoCorrectRatio = 0.8
	// SuggestionCutoff and above (but below AutoCorrectRatio): ambiguous,
	// offer the candidate as a suggestion instead of correcting.
	SuggestionCutoff = 0.4
)

// articleSuffix matches trailing article/clause references such as
// " 제34조", "제 12 항 3호" so "고용노동법 제34조" cleans to "고용노동법".
var articleSuffix = regexp.MustCompile(`\s*제\s*\d+\s*(조|항|호|목).*$`)

// CleanStatuteName strips a trailing article/clause reference from a statute
// mention, isolating the bare statute name.
func CleanStatuteName(name string) string {
	return strings.TrimSpace(articleSuffix.ReplaceAllString(name, ""))
}

// Match is a fuzzy-match candidate with its similarity ratio.
type Match struct {
	Name  string
	Ratio float64
}

// StatuteRegistry is a read-only set of canonical statute names. It is safe
// to share across concurrent requests.
type StatuteRegistry struct {
	names []string
	set   map[string]struct{}
}

// NewStatuteRegistry creates a registry over the given names. Passing nil
// uses the built-in labor-statute list.
func NewStatuteRegistry(names []string) *StatuteRegistry {
	if names == nil {
		names = DefaultStatuteNames()
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return &StatuteRegistry{names: names, set: set}
}

// Contains reports whether name is an exact registry entry.
func (r *StatuteRegistry) Contains(name string) bool {
	_, ok := r.set[name]
	return ok
}

// Names returns a copy of the registry entries.
func (r *StatuteRegistry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// CloseMatches returns up to n registry entries whose similarity ratio to
// name is at least cutoff, best first.
func (r *StatuteRegistry) CloseMatches(name string, n int, cutoff float64) []Match {
	matches := make([]Match, 0, n)
	for _, candidate := range r.names {
		ratio := similarity(name, candidate)
		if ratio >= cutoff {
			matches = append(matches, Match{Name: candidate, Ratio: ratio})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Ratio > matches[j].Ratio
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}

// BestMatch returns the closest registry entry at or above SuggestionCutoff.
func (r *StatuteRegistry) BestMatch(name string) (Match, bool) {
	matches := r.CloseMatches(name, 1, SuggestionCutoff)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}

// similarity computes the difflib sequence-match ratio over characters.
func similarity(a, b string) float64 {
	return difflib.NewMatcher(chars(a), chars(b)).Ratio()
}

// chars splits a string into UTF-8 character sequences so that the ratio is
// computed per character, not per byte.
func chars(s string) []string {
	return strings.Split(s, "")
}

// DefaultStatuteNames returns the canonical Korean labor statutes covered by
// the retrieval corpus.
func DefaultStatuteNames() []string {
	return []string{
		"근로기준법",
		"근로기준법 시행령",
		"근로기준법 시행규칙",
		"최저임금법",
		"근로자퇴직급여 보장법",
		"임금채권보장법",
		"산업안전보건법",
		"산업재해보상보험법",
		"고용보험법",
		"고용정책 기본법",
		"직업안정법",
		"남녀고용평등과 일·가정 양립 지원에 관한 법률",
		"기간제 및 단시간근로자 보호 등에 관한 법률",
		"파견근로자 보호 등에 관한 법률",
		"노동조합 및 노동관계조정법",
		"근로자참여 및 협력증진에 관한 법률",
		"근로복지기본법",
		"채용절차의 공정화에 관한 법률",
		"중대재해 처벌 등에 관한 법률",
		"외국인근로자의 고용 등에 관한 법률",
		"고용상 연령차별금지 및 고령자고용촉진에 관한 법률",
		"장애인고용촉진 및 직업재활법",
		"공무원의 노동조합 설립 및 운영 등에 관한 법률",
		"교원의 노동조합 설립 및 운영 등에 관한 법률",
	}
}
