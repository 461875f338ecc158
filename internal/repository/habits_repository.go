package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/sekolahapps/kebiasaan/internal/error_values"
	"github.com/sekolahapps/kebiasaan/pkg/cleanup"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
)

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepo(cfg DBConfig) *HabitsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for habitsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &HabitsRepository{
		conn: pool,
	}
}

func NewHabitsRepoWithConn(conn PgConnection) *HabitsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	return &HabitsRepository{
		conn: conn,
	}
}

func (hr *HabitsRepository) Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error) {
	var id uuid.UUID
	row := hr.conn.QueryRow(ctx,
		`INSERT INTO habits (title, description, is_active) VALUES ($1, $2, $3) RETURNING id;`,
		habit.Title,
		habit.Description,
		habit.IsActive,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return uuid.UUID{}, errorvalues.ErrHabitExists
			}
		}
		return uuid.UUID{}, errors.New("creating habit db error: " + err.Error())
	}
	return id, nil
}

func (hr *HabitsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	var habit entity.Habit
	habit.ID = id
	row := hr.conn.QueryRow(ctx,
		`SELECT title, description, is_active, created_at, updated_at FROM habits WHERE id = $1;`, id)
	if err := row.Scan(&habit.Title, &habit.Description, &habit.IsActive, &habit.CreatedAt, &habit.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("getting habit by id error: " + err.Error())
	}
	return &habit, nil
}

func (hr *HabitsRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Habit, error) {
	habits := make([]*entity.Habit, 0)
	query := `SELECT id, title, description, is_active, created_at, updated_at FROM habits ORDER BY created_at;`
	if activeOnly {
		query = `SELECT id, title, description, is_active, created_at, updated_at FROM habits WHERE is_active = TRUE ORDER BY created_at;`
	}
	rows, err := hr.conn.Query(ctx, query)
	if err != nil {
		return nil, errors.New("listing habits error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		h := entity.Habit{}
		err = rows.Scan(&h.ID, &h.Title, &h.Description, &h.IsActive, &h.CreatedAt, &h.UpdatedAt)
		if err != nil {
			return nil, errors.New("scanning habit row error: " + err.Error())
		}
		habits = append(habits, &h)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return habits, nil
}

func (hr *HabitsRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	row := hr.conn.QueryRow(ctx, `SELECT COUNT(*) FROM habits WHERE is_active = TRUE;`)
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("counting active habits error: " + err.Error())
	}
	return count, nil
}

func (hr *HabitsRepository) Update(ctx context.Context, habit *entity.Habit) error {
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET title = $1, description = $2, updated_at = NOW() WHERE id = $3;`,
		habit.Title, habit.Description, habit.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return errorvalues.ErrHabitExists
			}
		}
		return errors.New("error updating habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET is_active = $1, updated_at = NOW() WHERE id = $2;`, active, id)
	if err != nil {
		return errors.New("error switching habit activity: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}
