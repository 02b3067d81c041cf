package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/chrisconley/salesboard/specs"
)

type ReportConfig struct {
	classifier           Classifier
	dateLayout           string
	dateRange            DateRange
	segments             SegmentFilter
	topN                 int
	canonicalStatusOrder bool
}

func NewReportConfig(spec specs.ReportConfigSpec) (ReportConfig, error) {
	classifier, err := NewClassifier(spec.InternalDomain)
	if err != nil {
		return ReportConfig{}, fmt.Errorf("invalid classifier: %w", err)
	}

	dateRange, err := NewDateRange(spec.DateRange)
	if err != nil {
		return ReportConfig{}, fmt.Errorf("invalid date range: %w", err)
	}

	layout := spec.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}

	return ReportConfig{
		classifier:           classifier,
		dateLayout:           layout,
		dateRange:            dateRange,
		segments:             NewSegmentFilter(spec.Segments),
		topN:                 spec.TopN,
		canonicalStatusOrder: spec.CanonicalStatusOrder,
	}, nil
}

func (c ReportConfig) Classifier() Classifier {
	return c.classifier
}

func (c ReportConfig) DateLayout() string {
	return c.dateLayout
}

func (c ReportConfig) DateRange() DateRange {
	return c.dateRange
}

func (c ReportConfig) Segments() SegmentFilter {
	return c.segments
}

func (c ReportConfig) TopN() int {
	return c.topN
}

func (c ReportConfig) CanonicalStatusOrder() bool {
	return c.canonicalStatusOrder
}

// DateRange is a closed interval of calendar days. A zero Start or End
// leaves that side unbounded.
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(spec specs.DateRangeSpec) (DateRange, error) {
	start := dayOf(spec.Start)
	end := dayOf(spec.End)
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return DateRange{}, fmt.Errorf("start must be before or equal to end")
	}
	return DateRange{start: start, end: end}, nil
}

func (r DateRange) Start() time.Time {
	return r.start
}

func (r DateRange) End() time.Time {
	return r.end
}

// Contains reports whether the day of t lies in the range, both ends
// included.
func (r DateRange) Contains(t time.Time) bool {
	day := dayOf(t)
	if !r.start.IsZero() && day.Before(r.start) {
		return false
	}
	if !r.end.IsZero() && day.After(r.end) {
		return false
	}
	return true
}

// dayOf truncates t to midnight UTC of its calendar day.
func dayOf(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SegmentFilter restricts aggregates to a set of segments. The zero value
// allows every segment.
type SegmentFilter struct {
	allowed map[string]bool
}

func NewSegmentFilter(segments []string) SegmentFilter {
	if len(segments) == 0 {
		return SegmentFilter{}
	}
	allowed := make(map[string]bool, len(segments))
	for _, s := range segments {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			allowed[trimmed] = true
		}
	}
	return SegmentFilter{allowed: allowed}
}

func (f SegmentFilter) Allows(segment string) bool {
	if len(f.allowed) == 0 {
		return true
	}
	return f.allowed[segment]
}
