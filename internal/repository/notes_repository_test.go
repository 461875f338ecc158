package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	errorvalues "github.com/sekolahapps/kebiasaan/internal/error_values"
	"github.com/sekolahapps/kebiasaan/internal/repository"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
	"github.com/stretchr/testify/assert"
)

func TestCreateNote(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewNotesRepoWithConn(mock)
	note := entity.TeacherNote{
		TeacherID: uuid.New(),
		StudentID: studentID,
		Note:      "Perlu perhatian ekstra",
	}
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO teacher_notes (teacher_id, student_id, note) VALUES ($1, $2, $3);`)
	t.Run("successfully created", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(note.TeacherID, note.StudentID, note.Note).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		err := repo.Create(ctx, &note)
		assert.NoError(t, err)
	})
	t.Run("unexist student", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(note.TeacherID, note.StudentID, note.Note).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		err := repo.Create(ctx, &note)
		assert.ErrorIs(t, err, errorvalues.ErrStudentNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(note.TeacherID, note.StudentID, note.Note).
			WillReturnError(errors.New("db error"))
		err := repo.Create(ctx, &note)
		assert.Error(t, err)
	})
	t.Run("nil note", func(t *testing.T) {
		err := repo.Create(ctx, nil)
		assert.Error(t, err)
	})
}

func TestListNotesByStudent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewNotesRepoWithConn(mock)
	note := entity.TeacherNote{
		ID:        uuid.New(),
		TeacherID: uuid.New(),
		StudentID: studentID,
		Note:      "Rajin sekali minggu ini",
		Date:      time.Now().Truncate(24 * time.Hour),
		CreatedAt: time.Now(),
	}
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT id, teacher_id, student_id, note, date, created_at
		FROM teacher_notes WHERE student_id = $1 ORDER BY created_at DESC LIMIT $2;`)
	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(studentID, 20).
			WillReturnRows(pgxmock.NewRows([]string{"id", "teacher_id", "student_id", "note", "date", "created_at"}).
				AddRow(note.ID, note.TeacherID, note.StudentID, note.Note, note.Date, note.CreatedAt))
		result, err := repo.ListByStudent(ctx, studentID, 20)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(result))
		assert.Equal(t, note, result[0])
	})
	t.Run("no notes", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(studentID, 20).
			WillReturnRows(pgxmock.NewRows([]string{"id", "teacher_id", "student_id", "note", "date", "created_at"}))
		result, err := repo.ListByStudent(ctx, studentID, 20)
		assert.NoError(t, err)
		assert.Equal(t, 0, len(result))
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(studentID, 20).
			WillReturnError(errors.New("db error"))
		_, err := repo.ListByStudent(ctx, studentID, 20)
		assert.Error(t, err)
	})
}
