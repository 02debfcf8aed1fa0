package models

// confidenceScale is the range confidence_score is stored on.
const confidenceScale = 100.0

// TrustWindowStats holds the raw aggregates for one time window. Nil
// means the aggregate was NULL (no matching rows).
type TrustWindowStats struct {
	AvgTrust *float64
	P80Trust *float64
	HighRate *float64
}

// TrustIndicators are the headline numbers. Averages and percentiles are
// on a 0-1 scale; high confidence rates stay on 0-100.
type TrustIndicators struct {
	AvgTrustToday            float64 `json:"avgTrustToday"`
	AvgTrustPeriod           float64 `json:"avgTrustPeriod"`
	Percentile80Today        float64 `json:"percentile80Today"`
	Percentile80Period       float64 `json:"percentile80Period"`
	HighConfidenceRateToday  float64 `json:"highConfidenceRateToday"`
	HighConfidenceRatePeriod float64 `json:"highConfidenceRatePeriod"`
}

// NewTrustIndicators normalizes the raw window aggregates.
func NewTrustIndicators(today, period TrustWindowStats) TrustIndicators {
	return TrustIndicators{
		AvgTrustToday:            floatOrZero(today.AvgTrust) / confidenceScale,
		AvgTrustPeriod:           floatOrZero(period.AvgTrust) / confidenceScale,
		Percentile80Today:        floatOrZero(today.P80Trust) / confidenceScale,
		Percentile80Period:       floatOrZero(period.P80Trust) / confidenceScale,
		HighConfidenceRateToday:  floatOrZero(today.HighRate),
		HighConfidenceRatePeriod: floatOrZero(period.HighRate),
	}
}

// TeamDayTrust is the mean confidence (0-100) of one team on one day.
type TeamDayTrust struct {
	Team     string  `json:"team"`
	Date     string  `json:"date"`
	AvgTrust float64 `json:"avg_trust"`
}

// TypologyTrust summarizes confidence (0-100) for one trust category.
type TypologyTrust struct {
	StrategyType string  `json:"strategy_type"`
	AvgTrust     float64 `json:"avg_trust"`
	QueryCount   int64   `json:"query_count"`
	MinTrust     float64 `json:"min_trust"`
	MaxTrust     float64 `json:"max_trust"`
}

// TrustLevelCount is the number of records in one category on one day.
type TrustLevelCount struct {
	Date  string `json:"date"`
	Level string `json:"level"`
	Count int64  `json:"count"`
}

// TrustTables groups the tabular trust views.
type TrustTables struct {
	TrustByTeamDay  []TeamDayTrust  `json:"trustByTeamDay"`
	TrustByTypology []TypologyTrust `json:"trustByTypology"`
}

// TrustCharts groups the chart series.
type TrustCharts struct {
	TrustDistribution    map[string]int64  `json:"trustDistribution"`
	TrustEvolutionByTeam []TeamDayTrust    `json:"trustEvolutionByTeam"`
	TrustLevelsEvolution []TrustLevelCount `json:"trustLevelsEvolution"`
}

// TrustAnalytics is the /trust-analytics response.
type TrustAnalytics struct {
	Indicators TrustIndicators `json:"indicators"`
	Tables     TrustTables     `json:"tables"`
	Charts     TrustCharts     `json:"charts"`
}
