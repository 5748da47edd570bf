// internal/app/features/dashboard/types.go
package dashboard

import (
	"github.com/dalemusser/garajhub/internal/app/system/charts"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/garajhub/internal/domain/models"
)

type periodOption struct {
	Value string
	Label string
}

var periods = []periodOption{
	{models.PeriodWeek, "Week"},
	{models.PeriodMonth, "Month"},
	{models.PeriodQuarter, "Quarter"},
	{models.PeriodYear, "Year"},
}

// chartSet is embedded in the page as JSON for the charting script.
type chartSet struct {
	UserGrowth   models.ChartSeries   `json:"user_growth"`
	Distribution charts.Distribution  `json:"startup_distribution"`
	Activity     models.ActivityChart `json:"activity"`
}

type dashboardData struct {
	viewdata.BaseVM

	Stats       models.Statistics
	Widgets     []charts.Widget
	Charts      chartSet
	ChartErrors []string
	Period      string
	Periods     []periodOption
}
