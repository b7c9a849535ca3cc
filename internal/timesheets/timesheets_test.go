package timesheets_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/clockstorm/internal/model"
	"github.com/Tiliavir/clockstorm/internal/options"
	"github.com/Tiliavir/clockstorm/internal/storage"
	"github.com/Tiliavir/clockstorm/internal/timecalc"
	"github.com/Tiliavir/clockstorm/internal/timesheets"
)

func date(y, m, d int) timecalc.DateOnly {
	return timecalc.DateOnly{Year: y, Month: m, Day: d}
}

func at(y, m, d, hh, mm, ss int) time.Time {
	return time.Date(y, time.Month(m), d, hh, mm, ss, 0, time.UTC)
}

func card(status model.TimeCardStatus, hours ...float64) model.TimeCard {
	return model.TimeCard{Status: status, Hours: model.HoursFromSlice(hours)}
}

func week(monday timecalc.DateOnly, cards ...model.TimeCard) model.TimeSheet {
	ts := model.EmptyTimeSheet(monday)
	ts.TimeCards = append(ts.TimeCards, cards...)
	return ts
}

func TestGetMissingReturnsEmptyWeek(t *testing.T) {
	monday := date(2023, 3, 13)
	ts := timesheets.Get(context.Background(), storage.NewMemoryStore(), monday)
	assert.Equal(t, model.EmptyTimeSheet(monday), ts)
	assert.Equal(t, date(2023, 3, 19), ts.Dates.Sunday)
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()
	ts := week(date(2023, 3, 13), card(model.StatusSaved, 8, 8, 7.5, 8, 4))

	require.NoError(t, timesheets.Save(ctx, s, ts))

	raw, ok, err := storage.GetOne(ctx, s, "timesheet-03/13/2023")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"status":"saved"`)

	assert.Equal(t, ts, timesheets.Get(ctx, s, date(2023, 3, 13)))
}

func TestSaveRejectsBrokenWeek(t *testing.T) {
	ts := week(date(2023, 3, 14))
	assert.ErrorIs(t, timesheets.Save(context.Background(), storage.NewMemoryStore(), ts), model.ErrInvalidTimeSheet)
}

func TestGetInvalidRecordReturnsEmptyWeek(t *testing.T) {
	ctx := context.Background()
	monday := date(2023, 3, 13)
	other := model.EmptyTimeSheet(date(2023, 3, 20))
	otherJSON, err := json.Marshal(other)
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
	}{
		{"missing dates", `{"timeCards": []}`},
		{"unknown status", `{"dates": {}, "timeCards": [{"status": "draft"}]}`},
		{"wrong week", string(otherJSON)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := storage.NewMemoryStore()
			require.NoError(t, s.Set(ctx, map[string]json.RawMessage{
				timesheets.StorageKey(monday): json.RawMessage(tt.raw),
			}))
			assert.Equal(t, model.EmptyTimeSheet(monday), timesheets.Get(ctx, s, monday))
		})
	}
}

func TestSummarizeNoTimeCards(t *testing.T) {
	s := timesheets.Summarize(week(date(2023, 3, 13)), options.Default(), at(2023, 3, 13, 10, 0, 0))
	assert.Equal(t, model.WeekNoTimeCards, s.WeekStatus)
	assert.Equal(t, 0, s.TotalDaysSaved)
	assert.Equal(t, 0, s.TotalDaysSubmitted)
	assert.Equal(t, model.DaysFilled{}, s.DaysFilled)
	assert.Nil(t, s.EndOfMonthReminderDate)
}

func TestSummarizeFullWeekSaved(t *testing.T) {
	ts := week(date(2023, 3, 13), card(model.StatusSaved, 8, 8, 8, 8, 8, 0, 0))
	s := timesheets.Summarize(ts, options.Default(), at(2023, 3, 17, 10, 0, 0))
	assert.Equal(t, model.WeekSomeUnsubmitted, s.WeekStatus)
	assert.Equal(t, 5, s.TotalDaysSaved)
	assert.Equal(t, 0, s.TotalDaysSubmitted)
	assert.Equal(t, model.DaysFilled{true, true, true, true, true, false, false}, s.DaysFilled)
}

func TestSummarizeCountsOverlappingCards(t *testing.T) {
	ts := week(date(2023, 3, 13),
		card(model.StatusSaved, 4, 4),
		card(model.StatusSaved, 4, 0, 4),
		card(model.StatusSubmitted, 2, 2, 2),
		card(model.StatusApproved, 1),
	)
	s := timesheets.Summarize(ts, options.Default(), at(2023, 3, 13, 10, 0, 0))
	assert.Equal(t, 4, s.TotalDaysSaved)
	assert.Equal(t, 4, s.TotalDaysSubmitted)
	assert.Equal(t, model.DaysFilled{true, true, true}, s.DaysFilled)
}

func TestWeekStatusPriority(t *testing.T) {
	tests := []struct {
		name     string
		statuses []model.TimeCardStatus
		want     model.WeekStatus
	}{
		{"empty", nil, model.WeekNoTimeCards},
		{"unsaved only", []model.TimeCardStatus{model.StatusUnsaved}, model.WeekSomeUnsaved},
		{"unsaved beats approved", []model.TimeCardStatus{model.StatusApproved, model.StatusUnsaved}, model.WeekSomeUnsaved},
		{"unsaved beats saved", []model.TimeCardStatus{model.StatusSaved, model.StatusUnsaved, model.StatusSubmitted}, model.WeekSomeUnsaved},
		{"saved", []model.TimeCardStatus{model.StatusSaved}, model.WeekSomeUnsubmitted},
		{"saved and submitted", []model.TimeCardStatus{model.StatusSubmitted, model.StatusSaved}, model.WeekSomeUnsubmitted},
		{"submitted", []model.TimeCardStatus{model.StatusSubmitted}, model.WeekAllSubmittedOrApproved},
		{"submitted and approved", []model.TimeCardStatus{model.StatusSubmitted, model.StatusApproved}, model.WeekAllSubmittedOrApproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := week(date(2023, 3, 13))
			for _, st := range tt.statuses {
				ts.TimeCards = append(ts.TimeCards, card(st, 8))
			}
			assert.Equal(t, tt.want, timesheets.WeekStatus(ts))
		})
	}
}

func TestEndOfMonthReminderDate(t *testing.T) {
	tests := []struct {
		name     string
		monday   timecalc.DateOnly
		dueDay   timecalc.DayOfWeek
		wantDate *timecalc.DateOnly
	}{
		{"wednesday before thursday", date(2023, 5, 29), timecalc.Thursday, &timecalc.DateOnly{Year: 2023, Month: 5, Day: 31}},
		{"wednesday on due day", date(2023, 5, 29), timecalc.Wednesday, nil},
		{"friday after thursday", date(2023, 6, 26), timecalc.Thursday, nil},
		{"friday before sunday", date(2023, 6, 26), timecalc.Sunday, &timecalc.DateOnly{Year: 2023, Month: 6, Day: 30}},
		{"saturday is not a business day", date(2023, 9, 25), timecalc.Sunday, nil},
		{"leap february", date(2024, 2, 26), timecalc.Friday, &timecalc.DateOnly{Year: 2024, Month: 2, Day: 29}},
		{"mid month", date(2023, 3, 13), timecalc.Sunday, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.Default()
			opts.EndOfWeekReminderDayOfWeek = tt.dueDay
			assert.Equal(t, tt.wantDate, timesheets.EndOfMonthReminderDate(week(tt.monday), opts))
		})
	}
}

func TestTimeRemaining(t *testing.T) {
	opts := options.Default()
	tests := []struct {
		name   string
		monday timecalc.DateOnly
		now    time.Time
		want   string
	}{
		{"before weekly deadline", date(2023, 3, 13), at(2023, 3, 16, 15, 30, 15), "01:29:45"},
		{"hours exceed a day", date(2023, 3, 13), at(2023, 3, 13, 17, 0, 0), "72:00:00"},
		{"weekly deadline passed", date(2023, 3, 13), at(2023, 3, 16, 17, 0, 1), "00:00:00"},
		{"month end first", date(2023, 5, 29), at(2023, 5, 30, 17, 0, 0), "24:00:00"},
		{"month end exactly due", date(2023, 5, 29), at(2023, 5, 31, 17, 0, 0), "00:00:00"},
		{"month end passed, weekly next", date(2023, 5, 29), at(2023, 5, 31, 18, 0, 0), "23:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := timesheets.Summarize(week(tt.monday), opts, tt.now)
			assert.Equal(t, tt.want, s.TimeRemaining)
		})
	}
}

func TestSummarizeIsIdempotent(t *testing.T) {
	ts := week(date(2023, 5, 29), card(model.StatusUnsaved, 8, 8), card(model.StatusSaved, 0, 0, 8))
	now := at(2023, 5, 30, 11, 12, 13)
	assert.Equal(t, timesheets.Summarize(ts, options.Default(), now), timesheets.Summarize(ts, options.Default(), now))
}
