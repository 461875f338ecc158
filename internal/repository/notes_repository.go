package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/sekolahapps/kebiasaan/internal/error_values"
	"github.com/sekolahapps/kebiasaan/pkg/cleanup"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
)

type NotesRepository struct {
	conn PgConnection
}

func NewNotesRepo(cfg DBConfig) *NotesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for notesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for notesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &NotesRepository{
		conn: pool,
	}
}

func NewNotesRepoWithConn(conn PgConnection) *NotesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for notesRepo: " + err.Error())
	}
	return &NotesRepository{
		conn: conn,
	}
}

func (nr *NotesRepository) Create(ctx context.Context, note *entity.TeacherNote) error {
	if note == nil {
		return errors.New("note is nil")
	}
	_, err := nr.conn.Exec(ctx,
		`INSERT INTO teacher_notes (teacher_id, student_id, note) VALUES ($1, $2, $3);`,
		note.TeacherID,
		note.StudentID,
		note.Note,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return errorvalues.ErrStudentNotFound
			}
		}
		return errors.New("creating teacher note error: " + err.Error())
	}
	return nil
}

func (nr *NotesRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]entity.TeacherNote, error) {
	rows, err := nr.conn.Query(ctx,
		`SELECT id, teacher_id, student_id, note, date, created_at
		FROM teacher_notes WHERE student_id = $1 ORDER BY created_at DESC LIMIT $2;`,
		studentID,
		limit,
	)
	if err != nil {
		return nil, errors.New("listing teacher notes error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.TeacherNote, 0)
	for rows.Next() {
		n := entity.TeacherNote{}
		err = rows.Scan(&n.ID, &n.TeacherID, &n.StudentID, &n.Note, &n.Date, &n.CreatedAt)
		if err != nil {
			return nil, errors.New("scanning note row error: " + err.Error())
		}
		result = append(result, n)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected note rows error: " + rows.Err().Error())
	}
	return result, nil
}
