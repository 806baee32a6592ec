package domain

// DailyRevenue 只用于计算人力成本占营业额的百分比
type DailyRevenue struct {
	DateKey          string  `json:"dateKey"`
	ProjectedRevenue float64 `json:"projectedRevenue"`
	OtherRevenue     float64 `json:"otherRevenue"`
	Notes            string  `json:"notes"`
	Version          int32   `json:"-"`
}

func (r *DailyRevenue) Total() float64 {
	return r.ProjectedRevenue + r.OtherRevenue
}
