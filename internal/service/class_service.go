package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/sekolahapps/kebiasaan/internal/error_values"
	"github.com/sekolahapps/kebiasaan/internal/repository"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
)

type ClassService struct {
	profilesRepo repository.ProfilesRepositoryI
	habitsRepo   repository.HabitsRepositoryI
	reportsRepo  repository.ReportsRepositoryI
	notesRepo    repository.NotesRepositoryI
	schoolsRepo  repository.SchoolsRepositoryI
}

func NewClassService(
	profilesRepo repository.ProfilesRepositoryI,
	habitsRepo repository.HabitsRepositoryI,
	reportsRepo repository.ReportsRepositoryI,
	notesRepo repository.NotesRepositoryI,
	schoolsRepo repository.SchoolsRepositoryI,
) *ClassService {
	if profilesRepo == nil || habitsRepo == nil || reportsRepo == nil || notesRepo == nil || schoolsRepo == nil {
		log.Fatal("on class service provided nil repos")
	}
	return &ClassService{
		profilesRepo: profilesRepo,
		habitsRepo:   habitsRepo,
		reportsRepo:  reportsRepo,
		notesRepo:    notesRepo,
		schoolsRepo:  schoolsRepo,
	}
}

func (cs *ClassService) Dashboard(ctx context.Context, teacher *entity.Profile, date time.Time) (*entity.ClassDashboard, error) {
	if teacher.ClassID == nil {
		return nil, errorvalues.ErrNoClassAssigned
	}
	class, err := cs.schoolsRepo.GetClass(ctx, *teacher.ClassID)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	students, err := cs.profilesRepo.ListByClass(ctx, *teacher.ClassID, entity.RoleSiswa)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	total, err := cs.habitsRepo.CountActive(ctx)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	ids := make([]uuid.UUID, 0, len(students))
	for _, student := range students {
		ids = append(ids, student.ID)
	}
	reports, err := cs.reportsRepo.ListByStudentsAndDate(ctx, ids, date)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	completed := make(map[uuid.UUID]int)
	lastReport := make(map[uuid.UUID]time.Time)
	for _, rep := range reports {
		if rep.Status {
			completed[rep.StudentID]++
		}
		if rep.UpdatedAt.After(lastReport[rep.StudentID]) {
			lastReport[rep.StudentID] = rep.UpdatedAt
		}
	}
	roster := make([]entity.RosterEntry, 0, len(students))
	reported := 0
	for _, student := range students {
		entry := entity.RosterEntry{
			Profile:   *student,
			Completed: completed[student.ID],
			Total:     total,
		}
		if at, ok := lastReport[student.ID]; ok {
			entry.LastReportAt = &at
		}
		if entry.Completed > 0 {
			reported++
		}
		roster = append(roster, entry)
	}
	return &entity.ClassDashboard{
		ClassName:     class.Name,
		TotalStudents: len(students),
		Reported:      reported,
		Students:      roster,
	}, nil
}

func (cs *ClassService) StudentDetail(ctx context.Context, teacher *entity.Profile, studentID uuid.UUID, date time.Time) (*entity.StudentDetail, error) {
	detail, err := cs.studentInClass(ctx, teacher, studentID)
	if err != nil {
		return nil, err
	}
	habits, err := cs.habitsRepo.List(ctx, true)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	entries, err := cs.reportsRepo.ListDay(ctx, studentID, date)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	statuses := mergeHabitStatuses(habits, entries)
	score := 0
	for _, status := range statuses {
		if status.Status {
			score++
		}
	}
	weekly, err := cs.weeklySeries(ctx, studentID, date)
	if err != nil {
		return nil, err
	}
	return &entity.StudentDetail{
		ProfileDetail: *detail,
		TodayScore:    score,
		TodayPercent:  Percent(score, len(statuses)),
		Habits:        statuses,
		Weekly:        weekly,
	}, nil
}

func (cs *ClassService) AddNote(ctx context.Context, teacher *entity.Profile, studentID uuid.UUID, note string) error {
	if strings.TrimSpace(note) == "" {
		return errorvalues.ErrEmptyNote
	}
	_, err := cs.studentInClass(ctx, teacher, studentID)
	if err != nil {
		return err
	}
	err = cs.notesRepo.Create(ctx, &entity.TeacherNote{
		TeacherID: teacher.ID,
		StudentID: studentID,
		Note:      strings.TrimSpace(note),
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrStudentNotFound) {
			return err
		}
		return errors.New("repository error: " + err.Error())
	}
	return nil
}

func (cs *ClassService) Notes(ctx context.Context, teacher *entity.Profile, studentID uuid.UUID, limit int) ([]entity.TeacherNote, error) {
	_, err := cs.studentInClass(ctx, teacher, studentID)
	if err != nil {
		return nil, err
	}
	notes, err := cs.notesRepo.ListByStudent(ctx, studentID, limit)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return notes, nil
}

// studentInClass guards every teacher operation: the target must be a
// student of the teacher's own class.
func (cs *ClassService) studentInClass(ctx context.Context, teacher *entity.Profile, studentID uuid.UUID) (*entity.ProfileDetail, error) {
	if teacher.ClassID == nil {
		return nil, errorvalues.ErrNoClassAssigned
	}
	detail, err := cs.profilesRepo.FindDetailByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrProfileNotFound) {
			return nil, errorvalues.ErrStudentNotFound
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	if detail.Role != entity.RoleSiswa {
		return nil, errorvalues.ErrNotAStudent
	}
	if detail.ClassID == nil || *detail.ClassID != *teacher.ClassID {
		return nil, errorvalues.ErrWrongClass
	}
	return detail, nil
}

func (cs *ClassService) weeklySeries(ctx context.Context, studentID uuid.UUID, date time.Time) ([]entity.DayCount, error) {
	from := date.AddDate(0, 0, -6)
	reports, err := cs.reportsRepo.ListRange(ctx, studentID, from, date)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	completed := make(map[string]int)
	for _, rep := range reports {
		if rep.Status {
			completed[rep.Date.Format(dateLayout)]++
		}
	}
	series := make([]entity.DayCount, 0, 7)
	for d := from; !d.After(date); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		series = append(series, entity.DayCount{Date: key, Completed: completed[key]})
	}
	return series, nil
}
