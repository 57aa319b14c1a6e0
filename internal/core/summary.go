package core

// PillarUsage is a compact allocated-vs-spent summary for one pillar
// over a date range.
type PillarUsage struct {
	PillarID              int64   `json:"pillar_id"`
	Name                  string  `json:"name"`
	Color                 string  `json:"color"`
	AllocatedHours        float64 `json:"allocated_hours"`
	SpentHours            float64 `json:"spent_hours"`
	UtilizationPercentage float64 `json:"utilization_percentage"`
}

// CategoryUsage is the same summary shape at category level.
type CategoryUsage struct {
	CategoryID            int64   `json:"category_id"`
	Name                  string  `json:"name"`
	PillarID              int64   `json:"pillar_id"`
	AllocatedHours        float64 `json:"allocated_hours"`
	SpentHours            float64 `json:"spent_hours"`
	UtilizationPercentage float64 `json:"utilization_percentage"`
}
