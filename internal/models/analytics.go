package models

// PersonStat is the query count and mean latency of one person.
type PersonStat struct {
	Person          string   `json:"person"`
	Count           int64    `json:"count"`
	AvgResponseTime *float64 `json:"avg_response_time"`
}

// TeamStat is the query count and mean latency of one team (app).
type TeamStat struct {
	Team            string   `json:"team"`
	Count           int64    `json:"count"`
	AvgResponseTime *float64 `json:"avg_response_time"`
}

// ModelStat is the query count attributed to one model.
type ModelStat struct {
	ModelID string `json:"model_id"`
	Count   int64  `json:"count"`
}

// AnalyticsSummary is the /analytics response.
type AnalyticsSummary struct {
	PersonStats []PersonStat `json:"personStats"`
	TeamStats   []TeamStat   `json:"teamStats"`
	ModelStats  []ModelStat  `json:"modelStats"`
}

// FilterOptions is the /filters response used by the UI pickers.
type FilterOptions struct {
	Persons []string `json:"persons"`
	Teams   []string `json:"teams"`
	Models  []string `json:"models"`
}
