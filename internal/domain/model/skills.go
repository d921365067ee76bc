package model

import (
	"sort"
	"strings"
)

// SkillSet is a set of normalized skill names. Normalization lowercases and
// collapses whitespace so "Machine  Learning" and "machine learning" are the
// same skill; a set never holds duplicates after normalization.
type SkillSet map[string]struct{}

// NormalizeSkill canonicalizes a raw skill string. Returns "" for blank input.
func NormalizeSkill(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NewSkillSet builds a SkillSet from raw strings, dropping blanks and
// duplicates.
func NewSkillSet(skills ...string) SkillSet {
	set := make(SkillSet, len(skills))
	for _, s := range skills {
		if n := NormalizeSkill(s); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Has reports whether the set contains the (normalized) skill.
func (s SkillSet) Has(skill string) bool {
	_, ok := s[NormalizeSkill(skill)]
	return ok
}

// Intersect returns the skills present in both sets.
func (s SkillSet) Intersect(other SkillSet) SkillSet {
	small, large := s, other
	if len(other) < len(s) {
		small, large = other, s
	}
	out := make(SkillSet)
	for skill := range small {
		if _, ok := large[skill]; ok {
			out[skill] = struct{}{}
		}
	}
	return out
}

// Slice returns the skills in deterministic sorted order.
func (s SkillSet) Slice() []string {
	out := make([]string, 0, len(s))
	for skill := range s {
		out = append(out, skill)
	}
	sort.Strings(out)
	return out
}
