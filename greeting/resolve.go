package greeting

import (
	"cmp"
	"slices"

	"github.com/jim-barber-he/aa-greeting/webex"
)

// Resolution is the outcome of matching name specs against the Auto Attendants.
type Resolution struct {
	// Targets are the matched Auto Attendants, each once, sorted by location then name.
	// Their LocationName is taken from the location list.
	Targets []webex.AutoAttendant
	// Unmatched holds a warning for every spec that selected nothing.
	Unmatched []*NoMatchWarning
}

// Resolve returns the union of the Auto Attendants matched by any of the specs.
func Resolve(specs []NameSpec, locations []webex.Location, attendants []webex.AutoAttendant) Resolution {
	locationNames := make(map[string]string, len(locations))
	knownLocations := make(map[string]bool, len(locations))
	for _, loc := range locations {
		locationNames[loc.ID] = loc.Name
		knownLocations[loc.Name] = true
	}

	matched := make([]bool, len(specs))
	seen := make(map[string]bool)

	var res Resolution

	for _, aa := range attendants {
		if name, ok := locationNames[aa.LocationID]; ok {
			aa.LocationName = name
		}
		for i, spec := range specs {
			if !spec.Matches(aa.LocationName, aa.Name) {
				continue
			}
			matched[i] = true
			if !seen[aa.ID] {
				seen[aa.ID] = true
				res.Targets = append(res.Targets, aa)
			}
		}
	}

	for i, spec := range specs {
		if matched[i] {
			continue
		}
		res.Unmatched = append(res.Unmatched, &NoMatchWarning{
			Spec:            spec,
			UnknownLocation: spec.Kind == SpecQualified && !knownLocations[spec.Location],
		})
	}

	slices.SortStableFunc(res.Targets, func(a, b webex.AutoAttendant) int {
		return cmp.Or(
			cmp.Compare(a.LocationName, b.LocationName),
			cmp.Compare(a.Name, b.Name),
		)
	})

	return res
}

// displayName formats an Auto Attendant as location:name.
func displayName(aa webex.AutoAttendant) string {
	return aa.LocationName + ":" + aa.Name
}
