/*
Package greeting picks Auto Attendants by name and sets the greeting of one of their menus.

A run resolves the name specs against the organisation's Auto Attendants, uploads the greeting file once when one is
given, and then updates each matched Auto Attendant in turn. A failure on one Auto Attendant is recorded and the
others are still processed.
*/
package greeting

import (
	"regexp"
	"strings"
)

// Characters that turn a name spec into a regular expression.
const patternChars = `.*+?()[]{}|^$\`

// SpecKind says how a NameSpec matches Auto Attendants.
type SpecKind int

const (
	// SpecName matches an Auto Attendant name exactly.
	SpecName SpecKind = iota
	// SpecQualified matches "location:name"; the name part may itself be a pattern.
	SpecQualified
	// SpecPattern matches names against an anchored regular expression.
	SpecPattern
)

func (k SpecKind) String() string {
	switch k {
	case SpecName:
		return "name"
	case SpecQualified:
		return "location:name"
	case SpecPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// NameSpec selects Auto Attendants by name.
type NameSpec struct {
	Raw      string
	Kind     SpecKind
	Location string
	Name     string

	pattern *regexp.Regexp
}

// ParseSpec classifies a name spec from the command line.
//
//	Reception            exact name
//	HQ:Reception         exact name in location HQ
//	Recep.*              regular expression over the whole name
//	HQ:.*                every Auto Attendant in location HQ
func ParseSpec(raw string) (NameSpec, error) {
	spec := NameSpec{Raw: raw, Kind: SpecName, Name: raw}

	// The location ends at the first colon; the name may contain more.
	if location, name, ok := strings.Cut(raw, ":"); ok {
		if location == "" {
			return NameSpec{}, NewInvalidSpecError(raw)
		}
		spec.Kind = SpecQualified
		spec.Location, spec.Name = location, name
	}

	if spec.Name == "" {
		return NameSpec{}, NewInvalidSpecError(raw)
	}

	if strings.ContainsAny(spec.Name, patternChars) {
		re, err := regexp.Compile("^(?:" + spec.Name + ")$")
		if err != nil {
			return NameSpec{}, NewInvalidPatternError(raw, err)
		}
		spec.pattern = re
		if spec.Kind == SpecName {
			spec.Kind = SpecPattern
		}
	}

	return spec, nil
}

// ParseSpecs parses each of the raw name specs, stopping at the first invalid one.
func ParseSpecs(raw []string) ([]NameSpec, error) {
	specs := make([]NameSpec, 0, len(raw))
	for _, r := range raw {
		spec, err := ParseSpec(r)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Matches reports whether an Auto Attendant with the given location name and name is selected by the spec.
// A name equal to the spec's name part is always selected, even when that part is also a pattern.
func (s NameSpec) Matches(location, name string) bool {
	if s.Kind == SpecQualified && location != s.Location {
		return false
	}
	if name == s.Name {
		return true
	}
	return s.pattern != nil && s.pattern.MatchString(name)
}

func (s NameSpec) String() string {
	return s.Raw
}
