package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sekolahapps/kebiasaan/pkg/cleanup"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
)

type SchoolsRepository struct {
	conn PgConnection
}

func NewSchoolsRepo(cfg DBConfig) *SchoolsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for schoolsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for schoolsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &SchoolsRepository{
		conn: pool,
	}
}

func NewSchoolsRepoWithConn(conn PgConnection) *SchoolsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for schoolsRepo: " + err.Error())
	}
	return &SchoolsRepository{
		conn: conn,
	}
}

func (sr *SchoolsRepository) GetSchool(ctx context.Context, id uuid.UUID) (*entity.School, error) {
	var school entity.School
	school.ID = id
	row := sr.conn.QueryRow(ctx, `SELECT name, address FROM schools WHERE id = $1;`, id)
	if err := row.Scan(&school.Name, &school.Address); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("school not found")
		}
		return nil, errors.New("getting school error: " + err.Error())
	}
	return &school, nil
}

func (sr *SchoolsRepository) GetClass(ctx context.Context, id uuid.UUID) (*entity.Class, error) {
	var class entity.Class
	class.ID = id
	row := sr.conn.QueryRow(ctx, `SELECT school_id, name FROM classes WHERE id = $1;`, id)
	if err := row.Scan(&class.SchoolID, &class.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("class not found")
		}
		return nil, errors.New("getting class error: " + err.Error())
	}
	return &class, nil
}

func (sr *SchoolsRepository) CountSchools(ctx context.Context) (int, error) {
	var count int
	row := sr.conn.QueryRow(ctx, `SELECT COUNT(*) FROM schools;`)
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("counting schools error: " + err.Error())
	}
	return count, nil
}
