package errorvalues

import "errors"

var (
	ErrProfileNotFound      = errors.New("profile doesn't exist")
	ErrEmailExists          = errors.New("profile with such email already exists")
	ErrWrongCredentials     = errors.New("wrong email or password")
	ErrInvalidToken         = errors.New("invalid token")
	ErrHabitNotFound        = errors.New("habit doesn't exist")
	ErrHabitExists          = errors.New("habit with such title already exists")
	ErrStudentNotFound      = errors.New("student doesn't exist")
	ErrWrongClass           = errors.New("student belongs to a different class")
	ErrNoClassAssigned      = errors.New("profile has no class assigned")
	ErrReportDateNotAllowed = errors.New("reports cannot be submitted for a future date")
	ErrDuplicateReportItem  = errors.New("report lists the same habit twice")
	ErrEmptyNote            = errors.New("note text is empty")
	ErrUnknownRole          = errors.New("unknown role")
	ErrNotAStudent          = errors.New("profile is not a student")
)
