package model

import "strings"

// DegreeLevel orders education attainment for band lookups.
type DegreeLevel int

// Degree levels from lowest to highest.
const (
	DegreeNone DegreeLevel = iota
	DegreeAssociate
	DegreeBachelor
	DegreeMaster
	DegreeDoctorate
)

// String returns the canonical band name for a degree level.
func (d DegreeLevel) String() string {
	switch d {
	case DegreeAssociate:
		return "associate"
	case DegreeBachelor:
		return "bachelor"
	case DegreeMaster:
		return "master"
	case DegreeDoctorate:
		return "doctorate"
	default:
		return "none"
	}
}

// DegreeLevels lists all levels from lowest to highest.
func DegreeLevels() []DegreeLevel {
	return []DegreeLevel{DegreeNone, DegreeAssociate, DegreeBachelor, DegreeMaster, DegreeDoctorate}
}

// degreeKeywords maps free-text degree vocabulary to levels. Tokens here come
// from the intake parser's observed vocabulary.
var degreeKeywords = []struct {
	keyword string
	level   DegreeLevel
}{
	{"phd", DegreeDoctorate},
	{"ph.d", DegreeDoctorate},
	{"doctor", DegreeDoctorate},
	{"dphil", DegreeDoctorate},
	{"master", DegreeMaster},
	{"m.sc", DegreeMaster},
	{"msc", DegreeMaster},
	{"m.s.", DegreeMaster},
	{"mba", DegreeMaster},
	{"m.eng", DegreeMaster},
	{"bachelor", DegreeBachelor},
	{"b.sc", DegreeBachelor},
	{"bsc", DegreeBachelor},
	{"b.s.", DegreeBachelor},
	{"b.a.", DegreeBachelor},
	{"b.eng", DegreeBachelor},
	{"undergraduate", DegreeBachelor},
	{"associate", DegreeAssociate},
	{"a.a.", DegreeAssociate},
	{"a.s.", DegreeAssociate},
	{"diploma", DegreeAssociate},
}

// ParseDegreeLevel maps a free-text degree name to a DegreeLevel.
// Unknown or empty text maps to DegreeNone.
func ParseDegreeLevel(degree string) DegreeLevel {
	text := strings.ToLower(degree)
	if text == "" {
		return DegreeNone
	}
	best := DegreeNone
	for _, k := range degreeKeywords {
		if strings.Contains(text, k.keyword) && k.level > best {
			best = k.level
		}
	}
	return best
}

// HighestDegree returns the highest degree level across education entries.
func HighestDegree(entries []Education) DegreeLevel {
	best := DegreeNone
	for _, e := range entries {
		if lvl := ParseDegreeLevel(e.Degree); lvl > best {
			best = lvl
		}
	}
	return best
}
