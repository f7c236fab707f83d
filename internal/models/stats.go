package models

import (
	"time"

	"gorm.io/gorm"

	"whistleline/pkg/errors"
)

type DailyStat struct {
	Date     string `json:"date"`
	Visitors int64  `json:"visitors"`
	Alerts   int64  `json:"alerts"`
	Actions  int64  `json:"actions"`
	Messages int64  `json:"messages"`
}

type SiteStats struct {
	TotalVisitors int64       `json:"totalVisitors"`
	TotalAlerts   int64       `json:"totalAlerts"`
	TotalActions  int64       `json:"totalActions"`
	TotalMessages int64       `json:"totalMessages"`
	StatsByDate   []DailyStat `json:"statsByDate"`
}

const statsWindowDays = 30

// GetSiteStats aggregates totals plus a daily series over the last 30
// days, optionally narrowed to [start, end] (YYYY-MM-DD).
func GetSiteStats(db *gorm.DB, start, end string) (*SiteStats, error) {
	stats := &SiteStats{}

	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&Visitor{}, &stats.TotalVisitors},
		{&Alert{}, &stats.TotalAlerts},
		{&Action{}, &stats.TotalActions},
		{&ContactMessage{}, &stats.TotalMessages},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, errors.Wrap(errors.CodePersistence, err, "count rows")
		}
	}

	since := time.Now().AddDate(0, 0, -(statsWindowDays - 1))
	days := make(map[string]*DailyStat)
	order := make([]string, 0, statsWindowDays)
	for i := 0; i < statsWindowDays; i++ {
		date := since.AddDate(0, 0, i).Format("2006-01-02")
		if start != "" && date < start {
			continue
		}
		if end != "" && date > end {
			continue
		}
		days[date] = &DailyStat{Date: date}
		order = append(order, date)
	}

	series := []struct {
		model interface{}
		set   func(d *DailyStat, n int64)
	}{
		{&Visitor{}, func(d *DailyStat, n int64) { d.Visitors = n }},
		{&Alert{}, func(d *DailyStat, n int64) { d.Alerts = n }},
		{&Action{}, func(d *DailyStat, n int64) { d.Actions = n }},
		{&ContactMessage{}, func(d *DailyStat, n int64) { d.Messages = n }},
	}
	for _, s := range series {
		var rows []struct {
			Date string
			N    int64
		}
		err := db.Model(s.model).
			Select("DATE(created_at) as date, COUNT(*) as n").
			Where("created_at >= ?", since).
			Group("DATE(created_at)").
			Scan(&rows).Error
		if err != nil {
			return nil, errors.Wrap(errors.CodePersistence, err, "aggregate daily stats")
		}
		for _, row := range rows {
			if d, ok := days[normalizeDate(row.Date)]; ok {
				s.set(d, row.N)
			}
		}
	}

	// Newest first, matching the dashboard ordering.
	for i := len(order) - 1; i >= 0; i-- {
		stats.StatsByDate = append(stats.StatsByDate, *days[order[i]])
	}
	if stats.StatsByDate == nil {
		stats.StatsByDate = []DailyStat{}
	}
	return stats, nil
}

// normalizeDate trims driver-dependent timestamp suffixes down to the date.
func normalizeDate(raw string) string {
	if len(raw) > 10 {
		return raw[:10]
	}
	return raw
}
