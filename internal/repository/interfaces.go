package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sekolahapps/kebiasaan/pkg/entity"
)

type ProfilesRepositoryI interface {
	// Creates new profile. ID is generated by the database
	Create(ctx context.Context, profile *entity.Profile) (uuid.UUID, error)
	// Looks up profile by id. Used for session resolution
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	// Looks up profile by email. Used for login
	FindByEmail(ctx context.Context, email string) (*entity.Profile, error)
	// Looks up profile with its school and class names embedded
	FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.ProfileDetail, error)
	// Lists profiles of a given role in a class. Used for the homeroom roster
	ListByClass(ctx context.Context, classID uuid.UUID, role entity.Role) ([]*entity.Profile, error)
	// Counts profiles of a given role school-wide
	CountByRole(ctx context.Context, role entity.Role) (int, error)
}

type HabitsRepositoryI interface {
	// Creates new habit. Returns the generated id
	Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error)
	// Searches habit with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error)
	// Lists habits, active only or all of them
	List(ctx context.Context, activeOnly bool) ([]*entity.Habit, error)
	// Counts active habits. The denominator of every completion percentage
	CountActive(ctx context.Context) (int, error)
	// Updates habit title and description by ID
	Update(ctx context.Context, habit *entity.Habit) error
	// Activates or deactivates a habit
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type ReportsRepositoryI interface {
	// Upserts the whole day's batch in one statement, keyed on
	// (student_id, habit_id, date)
	UpsertDay(ctx context.Context, reports []entity.DailyReport) error
	// Lists one student's reports for one date, joined with habit titles
	ListDay(ctx context.Context, studentID uuid.UUID, date time.Time) ([]entity.ReportEntry, error)
	// Lists one student's reports over a date range
	ListRange(ctx context.Context, studentID uuid.UUID, from, to time.Time) ([]entity.DailyReport, error)
	// Lists reports of several students for one date. Used for the class roster
	ListByStudentsAndDate(ctx context.Context, studentIDs []uuid.UUID, date time.Time) ([]entity.DailyReport, error)
	// Counts distinct students that reported anything on a date
	CountReporters(ctx context.Context, date time.Time) (int, error)
}

type NotesRepositoryI interface {
	// Appends a teacher note about one student
	Create(ctx context.Context, note *entity.TeacherNote) error
	// Lists notes about one student, newest first
	ListByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]entity.TeacherNote, error)
}

type SchoolsRepositoryI interface {
	GetSchool(ctx context.Context, id uuid.UUID) (*entity.School, error)
	GetClass(ctx context.Context, id uuid.UUID) (*entity.Class, error)
	CountSchools(ctx context.Context) (int, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
