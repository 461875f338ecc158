package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errorvalues "github.com/sekolahapps/kebiasaan/internal/error_values"
	"github.com/sekolahapps/kebiasaan/internal/repository"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
)

const dateLayout = "2006-01-02"

type ReportsService struct {
	habitsRepo  repository.HabitsRepositoryI
	reportsRepo repository.ReportsRepositoryI
	streak      StreakCounter
}

func NewReportsService(habitsRepo repository.HabitsRepositoryI, reportsRepo repository.ReportsRepositoryI, streak StreakCounter) *ReportsService {
	if habitsRepo == nil || reportsRepo == nil {
		log.Fatal("on reports service provided nil repos")
	}
	if streak == nil {
		streak = NewFixedStreakCounter(0)
	}
	return &ReportsService{
		habitsRepo:  habitsRepo,
		reportsRepo: reportsRepo,
		streak:      streak,
	}
}

func (rs *ReportsService) Dashboard(ctx context.Context, studentID uuid.UUID, date time.Time) (*entity.StudentDashboard, error) {
	total, err := rs.habitsRepo.CountActive(ctx)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	entries, err := rs.reportsRepo.ListDay(ctx, studentID, date)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	recent := make([]entity.ReportEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Status {
			recent = append(recent, entry)
		}
	}
	streak, err := rs.streak.CurrentStreak(ctx, studentID)
	if err != nil {
		return nil, errors.New("streak counter error: " + err.Error())
	}
	return &entity.StudentDashboard{
		TodayCompleted: len(recent),
		TotalHabits:    total,
		Streak:         streak,
		Recent:         recent,
	}, nil
}

func (rs *ReportsService) ReportForm(ctx context.Context, studentID uuid.UUID, date time.Time) ([]entity.HabitStatus, error) {
	habits, err := rs.habitsRepo.List(ctx, true)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	entries, err := rs.reportsRepo.ListDay(ctx, studentID, date)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return mergeHabitStatuses(habits, entries), nil
}

func (rs *ReportsService) Submit(ctx context.Context, studentID uuid.UUID, date time.Time, items []SubmitItem) error {
	if date.After(time.Now()) {
		return errorvalues.ErrReportDateNotAllowed
	}
	// The batch upserts on (student_id, habit_id, date), so one habit may
	// appear only once per request.
	seen := make(map[uuid.UUID]struct{}, len(items))
	reports := make([]entity.DailyReport, 0, len(items))
	for _, item := range items {
		if err := validateSubmitItem(item); err != nil {
			return err
		}
		if _, ok := seen[item.HabitID]; ok {
			return errorvalues.ErrDuplicateReportItem
		}
		seen[item.HabitID] = struct{}{}
		reports = append(reports, entity.DailyReport{
			StudentID: studentID,
			HabitID:   item.HabitID,
			Date:      date,
			Status:    item.Status,
			Note:      item.Note,
		})
	}
	err := rs.reportsRepo.UpsertDay(ctx, reports)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("repository error: " + err.Error())
	}
	return nil
}

func validateSubmitItem(item SubmitItem) error {
	err := validate.Struct(item)
	if err == nil {
		return nil
	}
	if validationError, ok := err.(validator.ValidationErrors); ok {
		err = errors.New("validation error: ")
		for _, fieldErr := range validationError {
			err = errors.Join(err, fieldErr)
		}
		return err
	}
	return errors.New("validation unexpected error: " + err.Error())
}

func (rs *ReportsService) History(ctx context.Context, studentID uuid.UUID, date time.Time, days int) (*entity.HistorySummary, error) {
	if days < 1 {
		days = 30
	}
	from := date.AddDate(0, 0, -(days - 1))
	reports, err := rs.reportsRepo.ListRange(ctx, studentID, from, date)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	// Group per calendar date. ListRange returns newest first and the
	// grouping keeps that order.
	grouped := make(map[string]*entity.DaySummary)
	order := make([]string, 0)
	var sumScore, sumTotal int
	for _, rep := range reports {
		key := rep.Date.Format(dateLayout)
		day, ok := grouped[key]
		if !ok {
			day = &entity.DaySummary{Date: key}
			grouped[key] = day
			order = append(order, key)
		}
		day.Total++
		sumTotal++
		if rep.Status {
			day.Score++
			sumScore++
		}
	}
	summaries := make([]entity.DaySummary, 0, len(order))
	for _, key := range order {
		summaries = append(summaries, *grouped[key])
	}
	return &entity.HistorySummary{
		ConsistencyRate: Percent(sumScore, sumTotal),
		ActiveDays:      len(order),
		SkippedDays:     days - len(order),
		Days:            summaries,
	}, nil
}

// WeeklySeries returns per-day completed counts for the window ending at
// date, zero-filled so charts always get a point per day.
func (rs *ReportsService) WeeklySeries(ctx context.Context, studentID uuid.UUID, date time.Time, days int) ([]entity.DayCount, error) {
	from := date.AddDate(0, 0, -(days - 1))
	reports, err := rs.reportsRepo.ListRange(ctx, studentID, from, date)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	completed := make(map[string]int)
	for _, rep := range reports {
		if rep.Status {
			completed[rep.Date.Format(dateLayout)]++
		}
	}
	series := make([]entity.DayCount, 0, days)
	for d := from; !d.After(date); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		series = append(series, entity.DayCount{Date: key, Completed: completed[key]})
	}
	return series, nil
}

func mergeHabitStatuses(habits []*entity.Habit, entries []entity.ReportEntry) []entity.HabitStatus {
	statuses := make([]entity.HabitStatus, 0, len(habits))
	for _, habit := range habits {
		status := entity.HabitStatus{Habit: *habit}
		for _, entry := range entries {
			if entry.HabitID == habit.ID {
				status.Status = entry.Status
				status.Note = entry.Note
				reportedAt := entry.UpdatedAt
				status.ReportedAt = &reportedAt
				break
			}
		}
		statuses = append(statuses, status)
	}
	return statuses
}
