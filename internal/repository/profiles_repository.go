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

type ProfilesRepository struct {
	conn PgConnection
}

func NewProfilesRepo(cfg DBConfig) *ProfilesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for profilesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for profilesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &ProfilesRepository{
		conn: pool,
	}
}

func NewProfilesRepoWithConn(conn PgConnection) *ProfilesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for profilesRepo: " + err.Error())
	}
	return &ProfilesRepository{
		conn: conn,
	}
}

func (pr *ProfilesRepository) Create(ctx context.Context, profile *entity.Profile) (uuid.UUID, error) {
	if profile == nil {
		return uuid.UUID{}, errors.New("profile is nil")
	}
	var id uuid.UUID
	row := pr.conn.QueryRow(ctx,
		`INSERT INTO profiles (name, role, school_id, class_id, email, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		profile.Name,
		profile.Role,
		profile.SchoolID,
		profile.ClassID,
		profile.Email,
		profile.PasswordHash,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return uuid.UUID{}, errorvalues.ErrEmailExists
			}
		}
		return uuid.UUID{}, errors.New("creating profile db error: " + err.Error())
	}
	return id, nil
}

func (pr *ProfilesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	var profile entity.Profile
	row := pr.conn.QueryRow(ctx,
		`SELECT id, name, role, school_id, class_id, email, password_hash, created_at FROM profiles WHERE id = $1;`, id)
	if err := row.Scan(&profile.ID, &profile.Name, &profile.Role, &profile.SchoolID,
		&profile.ClassID, &profile.Email, &profile.PasswordHash, &profile.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrProfileNotFound
		}
		return nil, errors.New("searching profile by id error: " + err.Error())
	}
	return &profile, nil
}

func (pr *ProfilesRepository) FindByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	var profile entity.Profile
	row := pr.conn.QueryRow(ctx,
		`SELECT id, name, role, school_id, class_id, email, password_hash, created_at FROM profiles WHERE email = $1;`, email)
	if err := row.Scan(&profile.ID, &profile.Name, &profile.Role, &profile.SchoolID,
		&profile.ClassID, &profile.Email, &profile.PasswordHash, &profile.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrProfileNotFound
		}
		return nil, errors.New("searching profile by email error: " + err.Error())
	}
	return &profile, nil
}

func (pr *ProfilesRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.ProfileDetail, error) {
	var detail entity.ProfileDetail
	var schoolName, className *string
	row := pr.conn.QueryRow(ctx,
		`SELECT p.id, p.name, p.role, p.school_id, p.class_id, p.email, p.created_at, s.name, c.name
		FROM profiles p
		LEFT JOIN schools s ON s.id = p.school_id
		LEFT JOIN classes c ON c.id = p.class_id
		WHERE p.id = $1;`, id)
	if err := row.Scan(&detail.ID, &detail.Name, &detail.Role, &detail.SchoolID,
		&detail.ClassID, &detail.Email, &detail.CreatedAt, &schoolName, &className); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrProfileNotFound
		}
		return nil, errors.New("searching profile detail error: " + err.Error())
	}
	if schoolName != nil {
		detail.SchoolName = *schoolName
	}
	if className != nil {
		detail.ClassName = *className
	}
	return &detail, nil
}

func (pr *ProfilesRepository) ListByClass(ctx context.Context, classID uuid.UUID, role entity.Role) ([]*entity.Profile, error) {
	profiles := make([]*entity.Profile, 0)
	rows, err := pr.conn.Query(ctx,
		`SELECT id, name, role, school_id, class_id, email, created_at
		FROM profiles WHERE class_id = $1 AND role = $2 ORDER BY name;`, classID, role)
	if err != nil {
		return nil, errors.New("listing profiles by class error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		p := entity.Profile{}
		err = rows.Scan(&p.ID, &p.Name, &p.Role, &p.SchoolID, &p.ClassID, &p.Email, &p.CreatedAt)
		if err != nil {
			return nil, errors.New("scanning profile row error: " + err.Error())
		}
		profiles = append(profiles, &p)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return profiles, nil
}

func (pr *ProfilesRepository) CountByRole(ctx context.Context, role entity.Role) (int, error) {
	var count int
	row := pr.conn.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE role = $1;`, role)
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("counting profiles error: " + err.Error())
	}
	return count, nil
}
