// Package similarity defines the contract for the text-similarity
// collaborator that produces the match sub-score.
package similarity

import (
	"context"
	"strings"
	"unicode"
)

const maxScoreValue = 100

// Scorer computes a 0-100 similarity between an applicant's free text and a
// job's combined description. Production deployments back this with an
// embedding service; the in-memory implementation below stands in for it.
type Scorer interface {
	MatchScore(ctx context.Context, resumeText, jobText string) (float64, error)
}

// Option applies a configuration option to the LexicalScorer.
type Option func(*LexicalScorer)

// WithStopwords replaces the default stopword list.
func WithStopwords(words ...string) Option {
	return func(s *LexicalScorer) {
		s.stopwords = make(map[string]struct{}, len(words))
		for _, w := range words {
			s.stopwords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// defaultStopwords are tokens too common to carry signal.
var defaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from", "in",
	"is", "it", "of", "on", "or", "our", "the", "to", "with", "we", "you",
	"will", "your",
}

// LexicalScorer implements Scorer with token-overlap similarity. It is
// deterministic and allocation-light; one instance is safe for concurrent use.
type LexicalScorer struct {
	stopwords map[string]struct{}
}

// NewLexicalScorer creates a lexical scorer with configuration options.
func NewLexicalScorer(opts ...Option) *LexicalScorer {
	s := &LexicalScorer{
		stopwords: make(map[string]struct{}, len(defaultStopwords)),
	}
	for _, w := range defaultStopwords {
		s.stopwords[w] = struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MatchScore returns 100 times the fraction of the job's distinct tokens also
// present in the resume text. Empty job text scores 0.
func (s *LexicalScorer) MatchScore(ctx context.Context, resumeText, jobText string) (float64, error) {
	jobTokens := s.tokenize(jobText)
	if len(jobTokens) == 0 {
		return 0, nil
	}
	resumeTokens := s.tokenize(resumeText)

	matched := 0
	for token := range jobTokens {
		if _, ok := resumeTokens[token]; ok {
			matched++
		}
	}

	score := maxScoreValue * float64(matched) / float64(len(jobTokens))
	if score > maxScoreValue {
		score = maxScoreValue
	}
	return score, nil
}

// tokenize lowercases and splits on non-alphanumeric runes, dropping
// stopwords and single-character tokens.
func (s *LexicalScorer) tokenize(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := s.stopwords[f]; stop {
			continue
		}
		tokens[f] = struct{}{}
	}
	return tokens
}
