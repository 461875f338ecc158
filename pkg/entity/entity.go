package entity

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleWaliKelas Role = "wali_kelas"
	RoleSiswa     Role = "siswa"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWaliKelas, RoleSiswa:
		return true
	}
	return false
}

type Profile struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Role         Role       `json:"role"`
	SchoolID     *uuid.UUID `json:"school_id,omitempty"`
	ClassID      *uuid.UUID `json:"class_id,omitempty"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}

type School struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
}

type Class struct {
	ID       uuid.UUID `json:"id"`
	SchoolID uuid.UUID `json:"school_id"`
	Name     string    `json:"name"`
}

type Habit struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type DailyReport struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"student_id"`
	HabitID   uuid.UUID `json:"habit_id"`
	Date      time.Time `json:"date"`
	Status    bool      `json:"status"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TeacherNote struct {
	ID        uuid.UUID `json:"id"`
	TeacherID uuid.UUID `json:"teacher_id"`
	StudentID uuid.UUID `json:"student_id"`
	Note      string    `json:"note"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileDetail is a profile joined with its school and class names.
type ProfileDetail struct {
	Profile
	SchoolName string `json:"school_name,omitempty"`
	ClassName  string `json:"class_name,omitempty"`
}

// ReportEntry is a daily report joined with its habit title.
type ReportEntry struct {
	DailyReport
	HabitTitle string `json:"habit_title"`
}

// HabitStatus merges an active habit with the student's report for one day.
type HabitStatus struct {
	Habit
	Status     bool       `json:"status"`
	Note       string     `json:"note"`
	ReportedAt *time.Time `json:"reported_at,omitempty"`
}

type StudentDashboard struct {
	TodayCompleted int           `json:"today_completed"`
	TotalHabits    int           `json:"total_habits"`
	Streak         int           `json:"streak"`
	Recent         []ReportEntry `json:"recent"`
}

type DaySummary struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
	Total int    `json:"total"`
}

type HistorySummary struct {
	ConsistencyRate int          `json:"consistency_rate"`
	ActiveDays      int          `json:"active_days"`
	SkippedDays     int          `json:"skipped_days"`
	Days            []DaySummary `json:"days"`
}

type DayCount struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
}

type RosterEntry struct {
	Profile
	Completed    int        `json:"completed"`
	Total        int        `json:"total"`
	LastReportAt *time.Time `json:"last_report_at,omitempty"`
}

type ClassDashboard struct {
	ClassName     string        `json:"class_name"`
	TotalStudents int           `json:"total_students"`
	Reported      int           `json:"reported"`
	Students      []RosterEntry `json:"students"`
}

type StudentDetail struct {
	ProfileDetail
	TodayScore   int           `json:"today_score"`
	TodayPercent int           `json:"today_percent"`
	Habits       []HabitStatus `json:"habits"`
	Weekly       []DayCount    `json:"weekly"`
}

type AdminOverview struct {
	Schools        int `json:"schools"`
	Students       int `json:"students"`
	ComplianceRate int `json:"compliance_rate"`
}
