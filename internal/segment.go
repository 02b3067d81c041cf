package internal

import (
	"strings"

	"github.com/chrisconley/salesboard/specs"
)

// UnassignedSegment labels organizations and orders without a segment.
const UnassignedSegment = "Sin Segmento"

// SegmentIndex maps organization names to their segment, first occurrence
// in input order winning.
type SegmentIndex struct {
	segments    map[string]string
	ambiguities []*JoinAmbiguityWarning
}

func NewSegmentIndex(organizations []specs.OrganizationSpec) SegmentIndex {
	segments := make(map[string]string, len(organizations))
	occurrences := make(map[string]int, len(organizations))
	var duplicated []string

	for _, org := range organizations {
		name := strings.TrimSpace(org.Name)
		if name == "" {
			continue
		}
		occurrences[name]++
		switch occurrences[name] {
		case 1:
			segments[name] = SegmentOf(org.Segment)
		case 2:
			duplicated = append(duplicated, name)
		}
	}

	ambiguities := make([]*JoinAmbiguityWarning, 0, len(duplicated))
	for _, name := range duplicated {
		ambiguities = append(ambiguities, &JoinAmbiguityWarning{
			Organization: name,
			Occurrences:  occurrences[name],
		})
	}

	return SegmentIndex{segments: segments, ambiguities: ambiguities}
}

// Lookup returns the segment of the named organization, or
// UnassignedSegment when the name is null or unknown.
func (i SegmentIndex) Lookup(organization *string) string {
	if organization == nil {
		return UnassignedSegment
	}
	segment, ok := i.segments[strings.TrimSpace(*organization)]
	if !ok {
		return UnassignedSegment
	}
	return segment
}

// Ambiguities lists duplicated organization names in order of their second
// occurrence.
func (i SegmentIndex) Ambiguities() []*JoinAmbiguityWarning {
	return i.ambiguities
}

// AttachSegment implements specs.AttachSegment.
func AttachSegment(orders []specs.OrderSpec, organizations []specs.OrganizationSpec) []string {
	index := NewSegmentIndex(organizations)
	segments := make([]string, len(orders))
	for i, order := range orders {
		segments[i] = index.Lookup(order.Organization)
	}
	return segments
}

// SegmentOf trims a nullable segment, mapping null and blank to
// UnassignedSegment.
func SegmentOf(segment *string) string {
	if segment == nil {
		return UnassignedSegment
	}
	trimmed := strings.TrimSpace(*segment)
	if trimmed == "" {
		return UnassignedSegment
	}
	return trimmed
}
