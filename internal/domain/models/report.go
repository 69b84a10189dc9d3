package models

import "time"

// DateRange filters report counts by completedDate. Both bounds are
// optional and inclusive when present.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// GroupCount is one (group label, count) row from an aggregate query.
type GroupCount struct {
	Label string
	Count int
}

// Series is one named category series, positionally aligned to the
// report's label slice: Data[i] belongs to Report.Labels[i].
type Series struct {
	Name string `json:"name"`
	Data []int  `json:"data"`
}

// Report is the chart-ready output of the aggregator. Labels are the
// x-axis categories (sorted ascending); Series holds one entry per
// support category.
type Report struct {
	Labels []string `json:"categories"`
	Series []Series `json:"series"`
}
