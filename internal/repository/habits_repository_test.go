package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	errorvalues "github.com/sekolahapps/kebiasaan/internal/error_values"
	"github.com/sekolahapps/kebiasaan/internal/repository"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
	"github.com/stretchr/testify/assert"
)

func TestCreateHabit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	habit := entity.Habit{
		Title:       "Bangun Pagi",
		Description: "Bangun sebelum pukul 05.30",
		IsActive:    true,
	}
	hid := uuid.New()
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO habits (title, description, is_active) VALUES ($1, $2, $3) RETURNING id;`)
	t.Run("successfully created", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.Title, habit.Description, habit.IsActive).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(hid))
		id, err := repo.Create(ctx, &habit)
		assert.NoError(t, err)
		assert.Equal(t, hid, id)
	})
	t.Run("unique violation", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.Title, habit.Description, habit.IsActive).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		_, err := repo.Create(ctx, &habit)
		assert.ErrorIs(t, err, errorvalues.ErrHabitExists)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.Title, habit.Description, habit.IsActive).
			WillReturnError(errors.New("db error"))
		_, err := repo.Create(ctx, &habit)
		assert.Error(t, err)
	})
}

func TestGetHabitByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	habit := entity.Habit{
		ID:          uuid.New(),
		Title:       "Beribadah",
		Description: "Menjalankan ibadah",
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	query := regexp.QuoteMeta(`SELECT title, description, is_active, created_at, updated_at FROM habits WHERE id = $1;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.ID).
			WillReturnRows(pgxmock.NewRows([]string{"title", "description", "is_active", "created_at", "updated_at"}).
				AddRow(habit.Title, habit.Description, habit.IsActive, habit.CreatedAt, habit.UpdatedAt))
		result, err := repo.GetByID(ctx, habit.ID)
		assert.NoError(t, err)
		assert.Equal(t, habit, *result)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.ID).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByID(ctx, habit.ID)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.ID).
			WillReturnError(errors.New("db error"))
		_, err := repo.GetByID(ctx, habit.ID)
		assert.Error(t, err)
	})
}

func TestListHabits(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	ctx := context.Background()
	columns := []string{"id", "title", "description", "is_active", "created_at", "updated_at"}
	now := time.Now()
	t.Run("all habits", func(t *testing.T) {
		query := regexp.QuoteMeta(`SELECT id, title, description, is_active, created_at, updated_at FROM habits ORDER BY created_at;`)
		mock.ExpectQuery(query).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(uuid.New(), "Bangun Pagi", "", true, now, now).
				AddRow(uuid.New(), "Tidur Cepat", "", false, now, now))
		result, err := repo.List(ctx, false)
		assert.NoError(t, err)
		assert.Equal(t, 2, len(result))
	})
	t.Run("active only", func(t *testing.T) {
		query := regexp.QuoteMeta(`SELECT id, title, description, is_active, created_at, updated_at FROM habits WHERE is_active = TRUE ORDER BY created_at;`)
		mock.ExpectQuery(query).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(uuid.New(), "Bangun Pagi", "", true, now, now))
		result, err := repo.List(ctx, true)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(result))
		assert.True(t, result[0].IsActive)
	})
}

func TestCountActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT COUNT(*) FROM habits WHERE is_active = TRUE;`)
	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))
		count, err := repo.CountActive(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 7, count)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WillReturnError(errors.New("db error"))
		_, err := repo.CountActive(ctx)
		assert.Error(t, err)
	})
}

func TestUpdateHabit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	query := regexp.QuoteMeta(`UPDATE habits SET title = $1, description = $2, updated_at = NOW() WHERE id = $3;`)
	habit := entity.Habit{
		ID:          uuid.New(),
		Title:       "Berolahraga",
		Description: "Bergerak aktif minimal 30 menit",
	}
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(habit.Title, habit.Description, habit.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		err := repo.Update(ctx, &habit)
		assert.NoError(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(habit.Title, habit.Description, habit.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		err := repo.Update(ctx, &habit)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
	t.Run("rename to taken title", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(habit.Title, habit.Description, habit.ID).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		err := repo.Update(ctx, &habit)
		assert.ErrorIs(t, err, errorvalues.ErrHabitExists)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(habit.Title, habit.Description, habit.ID).
			WillReturnError(errors.New("db error"))
		err := repo.Update(ctx, &habit)
		assert.Error(t, err)
	})
}

func TestSetActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitsRepoWithConn(mock)
	query := regexp.QuoteMeta(`UPDATE habits SET is_active = $1, updated_at = NOW() WHERE id = $2;`)
	ctx := context.Background()
	id := uuid.New()
	t.Run("deactivated", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(false, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		err := repo.SetActive(ctx, id, false)
		assert.NoError(t, err)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(true, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		err := repo.SetActive(ctx, id, true)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(true, id).
			WillReturnError(errors.New("db error"))
		err := repo.SetActive(ctx, id, true)
		assert.Error(t, err)
	})
}
