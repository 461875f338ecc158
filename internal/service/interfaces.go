package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
)

type CreateAccountRequest struct {
	Name     string `validate:"required,person_name,min=3,max=100"`
	Email    string `validate:"required,email,max=150"`
	Password string `validate:"required,min=8,max=72"`
	Role     entity.Role
	SchoolID *uuid.UUID
	ClassID  *uuid.UUID
}

type HabitRequest struct {
	Title       string `validate:"required,min=3,max=150"`
	Description string `validate:"max=500"`
}

type SubmitItem struct {
	HabitID uuid.UUID `json:"habit_id"`
	Status  bool      `json:"status"`
	Note    string    `json:"note" validate:"max=500"`
}

type AuthServiceI interface {
	// Compares given credentials. If ok, gives back the profile with ID
	Login(ctx context.Context, email, password string) (*entity.Profile, error)
	// Validates and provisions a new account. Accounts are created by
	// administrators, there is no self-registration
	CreateAccount(ctx context.Context, req *CreateAccountRequest) (*entity.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	ProfileDetail(ctx context.Context, id uuid.UUID) (*entity.ProfileDetail, error)
}

type HabitsServiceI interface {
	ListHabits(ctx context.Context, activeOnly bool) ([]*entity.Habit, error)
	CreateHabit(ctx context.Context, req *HabitRequest) (*entity.Habit, error)
	UpdateHabit(ctx context.Context, id uuid.UUID, req *HabitRequest) (*entity.Habit, error)
	SetHabitActive(ctx context.Context, id uuid.UUID, active bool) error
}

type ReportsServiceI interface {
	// Aggregates the student landing view for one date
	Dashboard(ctx context.Context, studentID uuid.UUID, date time.Time) (*entity.StudentDashboard, error)
	// Active habits merged with the student's reports for one date
	ReportForm(ctx context.Context, studentID uuid.UUID, date time.Time) ([]entity.HabitStatus, error)
	// Upserts the whole day in one atomic write
	Submit(ctx context.Context, studentID uuid.UUID, date time.Time, items []SubmitItem) error
	// Per-day summaries over the trailing window ending at date
	History(ctx context.Context, studentID uuid.UUID, date time.Time, days int) (*entity.HistorySummary, error)
}

type ClassServiceI interface {
	Dashboard(ctx context.Context, teacher *entity.Profile, date time.Time) (*entity.ClassDashboard, error)
	StudentDetail(ctx context.Context, teacher *entity.Profile, studentID uuid.UUID, date time.Time) (*entity.StudentDetail, error)
	AddNote(ctx context.Context, teacher *entity.Profile, studentID uuid.UUID, note string) error
	Notes(ctx context.Context, teacher *entity.Profile, studentID uuid.UUID, limit int) ([]entity.TeacherNote, error)
}

type AdminServiceI interface {
	Overview(ctx context.Context, date time.Time) (*entity.AdminOverview, error)
}

// StreakCounter is the seam for the student streak figure.
type StreakCounter interface {
	CurrentStreak(ctx context.Context, studentID uuid.UUID) (int, error)
}
