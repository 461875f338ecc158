package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errorvalues "github.com/sekolahapps/kebiasaan/internal/error_values"
	"github.com/sekolahapps/kebiasaan/internal/service"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
	"github.com/stretchr/testify/assert"
)

type mockState int

const (
	stateSuccess mockState = iota
	stateDBError
	stateHabitNotFoundError
	stateHabitExistsError
	stateEmptyDay
)

var (
	studentID  = uuid.New()
	reportDate = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	habitIDs   = func() []uuid.UUID {
		ids := make([]uuid.UUID, 7)
		for i := range ids {
			ids[i] = uuid.New()
		}
		return ids
	}()
)

func activeHabits() []*entity.Habit {
	titles := []string{
		"Bangun Pagi",
		"Beribadah",
		"Berolahraga",
		"Makan Sehat dan Bergizi",
		"Gemar Belajar",
		"Bermasyarakat",
		"Tidur Cepat",
	}
	habits := make([]*entity.Habit, 0, len(titles))
	for i, title := range titles {
		habits = append(habits, &entity.Habit{
			ID:       habitIDs[i],
			Title:    title,
			IsActive: true,
		})
	}
	return habits
}

type habitsRepoMock struct {
	state mockState
}

func (m *habitsRepoMock) Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error) {
	switch m.state {
	case stateDBError:
		return uuid.UUID{}, errors.New("db error")
	default:
		return habitIDs[0], nil
	}
}

func (m *habitsRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	switch m.state {
	case stateDBError:
		return nil, errors.New("db error")
	case stateHabitNotFoundError:
		return nil, errorvalues.ErrHabitNotFound
	default:
		return activeHabits()[0], nil
	}
}

func (m *habitsRepoMock) List(ctx context.Context, activeOnly bool) ([]*entity.Habit, error) {
	switch m.state {
	case stateDBError:
		return nil, errors.New("db error")
	default:
		return activeHabits(), nil
	}
}

func (m *habitsRepoMock) CountActive(ctx context.Context) (int, error) {
	switch m.state {
	case stateDBError:
		return 0, errors.New("db error")
	default:
		return 7, nil
	}
}

func (m *habitsRepoMock) Update(ctx context.Context, habit *entity.Habit) error {
	switch m.state {
	case stateDBError:
		return errors.New("db error")
	case stateHabitNotFoundError:
		return errorvalues.ErrHabitNotFound
	case stateHabitExistsError:
		return errorvalues.ErrHabitExists
	default:
		return nil
	}
}

func (m *habitsRepoMock) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	switch m.state {
	case stateDBError:
		return errors.New("db error")
	case stateHabitNotFoundError:
		return errorvalues.ErrHabitNotFound
	default:
		return nil
	}
}

type reportsRepoMock struct {
	state    mockState
	upserted []entity.DailyReport
}

// One reported habit on the test date: Bermasyarakat, done, with a note.
func (m *reportsRepoMock) dayEntries() []entity.ReportEntry {
	return []entity.ReportEntry{
		{
			DailyReport: entity.DailyReport{
				ID:        uuid.New(),
				StudentID: studentID,
				HabitID:   habitIDs[5],
				Date:      reportDate,
				Status:    true,
				Note:      "Helped at home",
				UpdatedAt: reportDate.Add(19 * time.Hour),
			},
			HabitTitle: "Bermasyarakat",
		},
	}
}

func (m *reportsRepoMock) UpsertDay(ctx context.Context, reports []entity.DailyReport) error {
	switch m.state {
	case stateDBError:
		return errors.New("db error")
	case stateHabitNotFoundError:
		return errorvalues.ErrHabitNotFound
	default:
		m.upserted = reports
		return nil
	}
}

func (m *reportsRepoMock) ListDay(ctx context.Context, sid uuid.UUID, date time.Time) ([]entity.ReportEntry, error) {
	switch m.state {
	case stateDBError:
		return nil, errors.New("db error")
	case stateEmptyDay:
		return []entity.ReportEntry{}, nil
	default:
		return m.dayEntries(), nil
	}
}

func (m *reportsRepoMock) ListRange(ctx context.Context, sid uuid.UUID, from, to time.Time) ([]entity.DailyReport, error) {
	switch m.state {
	case stateDBError:
		return nil, errors.New("db error")
	case stateEmptyDay:
		return []entity.DailyReport{}, nil
	default:
		// Newest first: a full day, then a day with a single done habit.
		reports := make([]entity.DailyReport, 0, 8)
		for _, hid := range habitIDs {
			reports = append(reports, entity.DailyReport{
				StudentID: sid,
				HabitID:   hid,
				Date:      to,
				Status:    true,
			})
		}
		reports = append(reports, entity.DailyReport{
			StudentID: sid,
			HabitID:   habitIDs[0],
			Date:      to.AddDate(0, 0, -1),
			Status:    true,
		})
		return reports, nil
	}
}

func (m *reportsRepoMock) ListByStudentsAndDate(ctx context.Context, ids []uuid.UUID, date time.Time) ([]entity.DailyReport, error) {
	switch m.state {
	case stateDBError:
		return nil, errors.New("db error")
	case stateEmptyDay:
		return []entity.DailyReport{}, nil
	default:
		reports := make([]entity.DailyReport, 0, len(ids))
		for _, sid := range ids {
			reports = append(reports, entity.DailyReport{
				StudentID: sid,
				HabitID:   habitIDs[0],
				Date:      date,
				Status:    true,
				UpdatedAt: date.Add(7 * time.Hour),
			})
		}
		return reports, nil
	}
}

func (m *reportsRepoMock) CountReporters(ctx context.Context, date time.Time) (int, error) {
	switch m.state {
	case stateDBError:
		return 0, errors.New("db error")
	default:
		return 3, nil
	}
}

func TestStudentDashboard(t *testing.T) {
	habitsMock := &habitsRepoMock{}
	reportsMock := &reportsRepoMock{}
	s := service.NewReportsService(habitsMock, reportsMock, service.NewFixedStreakCounter(12))
	ctx := context.Background()
	t.Run("one of seven reported", func(t *testing.T) {
		d, err := s.Dashboard(ctx, studentID, reportDate)
		assert.NoError(t, err)
		assert.Equal(t, 1, d.TodayCompleted)
		assert.Equal(t, 7, d.TotalHabits)
		assert.Equal(t, 12, d.Streak)
		assert.Equal(t, 1, len(d.Recent))
		assert.Equal(t, "Bermasyarakat", d.Recent[0].HabitTitle)
	})
	t.Run("nothing reported yet", func(t *testing.T) {
		reportsMock.state = stateEmptyDay
		d, err := s.Dashboard(ctx, studentID, reportDate)
		assert.NoError(t, err)
		assert.Equal(t, 0, d.TodayCompleted)
		assert.Equal(t, 7, d.TotalHabits)
		reportsMock.state = stateSuccess
	})
	t.Run("db error", func(t *testing.T) {
		reportsMock.state = stateDBError
		_, err := s.Dashboard(ctx, studentID, reportDate)
		assert.Error(t, err)
		reportsMock.state = stateSuccess
	})
}

func TestReportForm(t *testing.T) {
	habitsMock := &habitsRepoMock{}
	reportsMock := &reportsRepoMock{}
	s := service.NewReportsService(habitsMock, reportsMock, nil)
	ctx := context.Background()
	t.Run("forms cover every active habit", func(t *testing.T) {
		statuses, err := s.ReportForm(ctx, studentID, reportDate)
		assert.NoError(t, err)
		assert.Equal(t, 7, len(statuses))
		for _, status := range statuses {
			if status.ID == habitIDs[5] {
				assert.True(t, status.Status)
				assert.Equal(t, "Helped at home", status.Note)
				assert.NotNil(t, status.ReportedAt)
				continue
			}
			assert.False(t, status.Status, status.Title)
			assert.Nil(t, status.ReportedAt, status.Title)
		}
	})
	t.Run("db error", func(t *testing.T) {
		habitsMock.state = stateDBError
		_, err := s.ReportForm(ctx, studentID, reportDate)
		assert.Error(t, err)
		habitsMock.state = stateSuccess
	})
}

func TestSubmit(t *testing.T) {
	habitsMock := &habitsRepoMock{}
	reportsMock := &reportsRepoMock{}
	s := service.NewReportsService(habitsMock, reportsMock, nil)
	ctx := context.Background()
	items := []service.SubmitItem{
		{HabitID: habitIDs[5], Status: true, Note: "Helped at home"},
		{HabitID: habitIDs[0], Status: false},
	}
	t.Run("success", func(t *testing.T) {
		err := s.Submit(ctx, studentID, reportDate, items)
		assert.NoError(t, err)
		assert.Equal(t, 2, len(reportsMock.upserted))
		assert.Equal(t, studentID, reportsMock.upserted[0].StudentID)
		assert.Equal(t, reportDate, reportsMock.upserted[0].Date)
		assert.Equal(t, "Helped at home", reportsMock.upserted[0].Note)
	})
	t.Run("future date rejected before touching the repo", func(t *testing.T) {
		reportsMock.upserted = nil
		err := s.Submit(ctx, studentID, time.Now().AddDate(0, 0, 1), items)
		assert.ErrorIs(t, err, errorvalues.ErrReportDateNotAllowed)
		assert.Nil(t, reportsMock.upserted)
	})
	t.Run("same habit twice in one batch", func(t *testing.T) {
		reportsMock.upserted = nil
		doubled := []service.SubmitItem{
			{HabitID: habitIDs[2], Status: true},
			{HabitID: habitIDs[2], Status: false},
		}
		err := s.Submit(ctx, studentID, reportDate, doubled)
		assert.ErrorIs(t, err, errorvalues.ErrDuplicateReportItem)
		assert.Nil(t, reportsMock.upserted)
	})
	t.Run("note too long", func(t *testing.T) {
		reportsMock.upserted = nil
		long := []service.SubmitItem{
			{HabitID: habitIDs[3], Status: true, Note: strings.Repeat("a", 501)},
		}
		err := s.Submit(ctx, studentID, reportDate, long)
		var fieldErr validator.FieldError
		assert.ErrorAs(t, err, &fieldErr)
		assert.Nil(t, reportsMock.upserted)
	})
	t.Run("unknown habit", func(t *testing.T) {
		reportsMock.state = stateHabitNotFoundError
		err := s.Submit(ctx, studentID, reportDate, items)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
		reportsMock.state = stateSuccess
	})
	t.Run("db error", func(t *testing.T) {
		reportsMock.state = stateDBError
		err := s.Submit(ctx, studentID, reportDate, items)
		assert.Error(t, err)
		reportsMock.state = stateSuccess
	})
}

func TestHistory(t *testing.T) {
	habitsMock := &habitsRepoMock{}
	reportsMock := &reportsRepoMock{}
	s := service.NewReportsService(habitsMock, reportsMock, nil)
	ctx := context.Background()
	t.Run("days grouped newest first", func(t *testing.T) {
		h, err := s.History(ctx, studentID, reportDate, 30)
		assert.NoError(t, err)
		assert.Equal(t, 2, h.ActiveDays)
		assert.Equal(t, 28, h.SkippedDays)
		assert.Equal(t, 2, len(h.Days))
		assert.Equal(t, reportDate.Format("2006-01-02"), h.Days[0].Date)
		assert.Equal(t, 7, h.Days[0].Score)
		assert.Equal(t, 7, h.Days[0].Total)
		assert.Equal(t, 1, h.Days[1].Score)
		// 8 of 8 reported entries done
		assert.Equal(t, 100, h.ConsistencyRate)
	})
	t.Run("empty history", func(t *testing.T) {
		reportsMock.state = stateEmptyDay
		h, err := s.History(ctx, studentID, reportDate, 30)
		assert.NoError(t, err)
		assert.Equal(t, 0, h.ActiveDays)
		assert.Equal(t, 30, h.SkippedDays)
		assert.Equal(t, 0, h.ConsistencyRate)
		reportsMock.state = stateSuccess
	})
	t.Run("db error", func(t *testing.T) {
		reportsMock.state = stateDBError
		_, err := s.History(ctx, studentID, reportDate, 30)
		assert.Error(t, err)
		reportsMock.state = stateSuccess
	})
}

func TestWeeklySeries(t *testing.T) {
	habitsMock := &habitsRepoMock{}
	reportsMock := &reportsRepoMock{}
	s := service.NewReportsService(habitsMock, reportsMock, nil)
	ctx := context.Background()
	series, err := s.WeeklySeries(ctx, studentID, reportDate, 7)
	assert.NoError(t, err)
	assert.Equal(t, 7, len(series))
	assert.Equal(t, reportDate.AddDate(0, 0, -6).Format("2006-01-02"), series[0].Date)
	// zero-filled except the last two days
	assert.Equal(t, 0, series[0].Completed)
	assert.Equal(t, 1, series[5].Completed)
	assert.Equal(t, 7, series[6].Completed)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 14, service.Percent(1, 7))
	assert.Equal(t, 0, service.Percent(0, 7))
	assert.Equal(t, 100, service.Percent(7, 7))
	assert.Equal(t, 57, service.Percent(4, 7))
	assert.Equal(t, 0, service.Percent(3, 0))
}

func TestAcademicYear(t *testing.T) {
	assert.Equal(t, "2026/2027", service.AcademicYear(time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026/2027", service.AcademicYear(time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025/2026", service.AcademicYear(time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)))
}
