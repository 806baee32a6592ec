package domain

// DayHours 是某个星期几的营业时间，Closed 为 true 时该天完全不参与缺口检测
type DayHours struct {
	Closed bool   `json:"closed"`
	Open   string `json:"open"`
	Close  string `json:"close"`
}

// PeakWindow 是高峰时段，在这个时间窗内要求更高的最低排班人数
type PeakWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type BusinessRules struct {
	// OperatingHours 按星期几索引，0 为周日，与 time.Weekday 保持一致
	OperatingHours [7]DayHours `json:"operatingHours"`
	MinStaff       int         `json:"minStaff"`
	PeakWindow     PeakWindow  `json:"peakWindow"`
	PeakMinStaff   int         `json:"peakMinStaff"`
	TargetLaborPct float64     `json:"targetLaborPct"`
	Currency       string      `json:"currency"`
	Version        int32       `json:"-"`
}

func DefaultBusinessRules() *BusinessRules {
	rules := &BusinessRules{
		MinStaff:       1,
		PeakWindow:     PeakWindow{Start: "12:00", End: "14:00"},
		PeakMinStaff:   2,
		TargetLaborPct: 30,
		Currency:       "CNY",
	}

	for weekday := range rules.OperatingHours {
		rules.OperatingHours[weekday] = DayHours{Open: "09:00", Close: "22:00"}
	}

	return rules
}
