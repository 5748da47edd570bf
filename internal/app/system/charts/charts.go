// Package charts shapes API chart payloads and statistics into the data the
// dashboard widgets render.
package charts

import (
	"math"

	"github.com/dalemusser/garajhub/internal/app/system/format"
	"github.com/dalemusser/garajhub/internal/domain/models"
)

// Status colours used by the startup distribution doughnut.
var statusColors = map[string]string{
	models.StartupStatusActive:    "#4A6FA5",
	models.StartupStatusPending:   "#FF9F40",
	models.StartupStatusCompleted: "#6DC5A3",
	models.StartupStatusRejected:  "#E74C3C",
}

// DefaultColor is used for any status without an assigned colour.
const DefaultColor = "#95A5A6"

// StatusColor returns the chart colour of a startup status.
func StatusColor(status string) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return DefaultColor
}

// LegendItem is one entry of the doughnut legend.
type LegendItem struct {
	Label   string  `json:"label"`
	Color   string  `json:"color"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Distribution is the startup_distribution payload with its legend.
type Distribution struct {
	models.ChartSeries
	Legend []LegendItem `json:"legend"`
}

// NewDistribution fills in missing colours and builds a legend aligned
// index-for-index with the series labels. Labels without data count as 0.
func NewDistribution(s models.ChartSeries) Distribution {
	colors := make([]string, len(s.Labels))
	legend := make([]LegendItem, len(s.Labels))

	total := 0
	for i := range s.Labels {
		if i < len(s.Data) {
			total += s.Data[i]
		}
	}

	for i, label := range s.Labels {
		color := StatusColor(label)
		if i < len(s.Colors) && s.Colors[i] != "" {
			color = s.Colors[i]
		}
		count := 0
		if i < len(s.Data) {
			count = s.Data[i]
		}
		colors[i] = color
		legend[i] = LegendItem{
			Label:   format.Title(label),
			Color:   color,
			Count:   count,
			Percent: percent(count, total),
		}
	}

	s.Colors = colors
	return Distribution{ChartSeries: s, Legend: legend}
}

// percent returns part/total*100 rounded to one decimal, 0 when total is 0.
func percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}

// Widget is one summary card.
type Widget struct {
	Label  string
	Value  string
	Detail string
	Icon   string
	Trend  float64
}

// SummaryWidgets returns the dashboard summary cards.
func SummaryWidgets(s models.Statistics) []Widget {
	return []Widget{
		{Label: "Total users", Value: format.Number(s.TotalUsers), Detail: "+" + format.Number(s.NewUsersToday) + " today", Icon: "users", Trend: s.UserGrowthRate},
		{Label: "Total startups", Value: format.Number(s.TotalStartups), Detail: "+" + format.Number(s.NewStartupsToday) + " today", Icon: "rocket", Trend: s.StartupGrowthRate},
		{Label: "Active startups", Value: format.Number(s.ActiveStartups), Icon: "bolt"},
		{Label: "Pending startups", Value: format.Number(s.PendingStartups), Icon: "hourglass"},
	}
}

// Detailed is the derived figures on the statistics page.
type Detailed struct {
	AvgDailyUsers int
	SuccessRate   int
	Widgets       []Widget
}

// AvgDailyUsers is users registered in the last 30 days divided by 30, rounded.
func AvgDailyUsers(s models.Statistics) int {
	return int(math.Round(float64(s.UsersLastMonth) / 30))
}

// SuccessRate is completed/total startups as a rounded percentage, 0 when
// there are no startups.
func SuccessRate(s models.Statistics) int {
	if s.TotalStartups <= 0 {
		return 0
	}
	return int(math.Round(float64(s.CompletedStartups) * 100 / float64(s.TotalStartups)))
}

// DetailedStats derives the statistics page figures.
func DetailedStats(s models.Statistics) Detailed {
	avg := AvgDailyUsers(s)
	rate := SuccessRate(s)
	return Detailed{
		AvgDailyUsers: avg,
		SuccessRate:   rate,
		Widgets: []Widget{
			{Label: "Users (30 days)", Value: format.Number(s.UsersLastMonth), Icon: "user-plus", Trend: s.UserGrowthRate},
			{Label: "Startups (30 days)", Value: format.Number(s.StartupsLastMonth), Icon: "rocket", Trend: s.StartupGrowthRate},
			{Label: "Avg. daily users", Value: format.Number(avg), Icon: "calendar-day"},
			{Label: "Success rate", Value: format.Number(rate) + "%", Icon: "trophy"},
			{Label: "Completed", Value: format.Number(s.CompletedStartups), Icon: "check"},
			{Label: "Rejected", Value: format.Number(s.RejectedStartups), Icon: "xmark"},
		},
	}
}

// ValidPeriod reports whether p is an accepted chart period.
func ValidPeriod(p string) bool {
	switch p {
	case models.PeriodWeek, models.PeriodMonth, models.PeriodQuarter, models.PeriodYear:
		return true
	}
	return false
}

// ValidKind reports whether k is a chart kind the API serves.
func ValidKind(k string) bool {
	switch k {
	case models.ChartUserGrowth, models.ChartStartupDistribution, models.ChartActivity:
		return true
	}
	return false
}
