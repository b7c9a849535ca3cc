package source

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Tiliavir/clockstorm/internal/model"
	"github.com/Tiliavir/clockstorm/internal/timecalc"
)

// WireTimeSheet is the timesheet grid as the API reports it. Week ending is
// the Sunday of the week in MM/DD/YYYY form.
type WireTimeSheet struct {
	WeekEnding string         `json:"weekEnding"`
	TimeCards  []WireTimeCard `json:"timeCards"`
}

// WireTimeCard is one grid row. Hours holds Monday..Sunday cells, which may
// be numbers or strings.
type WireTimeCard struct {
	Project string            `json:"project"`
	Status  string            `json:"status"`
	Hours   []json.RawMessage `json:"hours"`
}

// ToTimeSheet converts the grid into the week model. Rows without a project
// or with an unknown status are dropped and unreadable cells count as zero.
// A blank week ending yields nil.
func (w WireTimeSheet) ToTimeSheet() (*model.TimeSheet, error) {
	if strings.TrimSpace(w.WeekEnding) == "" {
		return nil, nil
	}
	sunday, err := timecalc.ParseDateOnlyKey(strings.TrimSpace(w.WeekEnding))
	if err != nil {
		return nil, err
	}
	if timecalc.DayOfWeekOf(sunday) != timecalc.Sunday {
		return nil, fmt.Errorf("week ending %s is a %s, not a sunday", w.WeekEnding, timecalc.DayOfWeekOf(sunday).Display())
	}

	ts := model.EmptyTimeSheet(timecalc.MinusDays(sunday, 6))
	for _, row := range w.TimeCards {
		if strings.TrimSpace(row.Project) == "" {
			continue
		}
		status := model.TimeCardStatus(strings.ToLower(strings.TrimSpace(row.Status)))
		if !status.Valid() {
			continue
		}
		hours := make([]float64, 7)
		for i := range hours {
			if i < len(row.Hours) {
				hours[i] = parseHours(row.Hours[i])
			}
		}
		ts.TimeCards = append(ts.TimeCards, model.TimeCard{Hours: model.HoursFromSlice(hours), Status: status})
	}
	return &ts, nil
}

func parseHours(raw json.RawMessage) float64 {
	text := strings.TrimSpace(string(raw))
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unquoted)
	}
	h, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return 0
	}
	return h
}
