// internal/domain/models/statistics.go
package models

// Chart kinds served by GET /statistics/chart/{kind}.
const (
	ChartUserGrowth          = "user_growth"
	ChartStartupDistribution = "startup_distribution"
	ChartActivity            = "activity"
)

// Chart periods accepted by the chart endpoints.
const (
	PeriodWeek    = "week"
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"
	PeriodYear    = "year"
)

// Statistics is the payload of GET /statistics.
type Statistics struct {
	TotalUsers        int     `json:"total_users"`
	TotalStartups     int     `json:"total_startups"`
	ActiveStartups    int     `json:"active_startups"`
	PendingStartups   int     `json:"pending_startups"`
	CompletedStartups int     `json:"completed_startups"`
	RejectedStartups  int     `json:"rejected_startups"`
	NewUsersToday     int     `json:"new_users_today"`
	NewStartupsToday  int     `json:"new_startups_today"`
	UsersLastMonth    int     `json:"users_last_month"`
	StartupsLastMonth int     `json:"startups_last_month"`
	UserGrowthRate    float64 `json:"user_growth_rate"`
	StartupGrowthRate float64 `json:"startup_growth_rate"`
}

// ChartSeries is a single-series chart (user_growth, startup_distribution).
// Colors is only set for startup_distribution.
type ChartSeries struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
	Colors []string `json:"colors,omitempty"`
}

// ChartDataset is one line of the activity chart.
type ChartDataset struct {
	Label       string `json:"label"`
	Data        []int  `json:"data"`
	BorderColor string `json:"borderColor"`
}

// ActivityChart is the payload of GET /statistics/chart/activity.
type ActivityChart struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}
