package model

// Revenue is a row of the read-only `revenue` table used by the chart.
type Revenue struct {
    Month   string `json:"month"`   // revenue.month (unique, e.g. "Jan")
    Revenue int64  `json:"revenue"` // revenue.revenue
}
