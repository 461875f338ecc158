package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/sekolahapps/kebiasaan/internal/error_values"
	"github.com/sekolahapps/kebiasaan/pkg/cleanup"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
)

type ReportsRepository struct {
	conn PgConnection
}

func NewReportsRepo(cfg DBConfig) *ReportsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for reportsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for reportsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &ReportsRepository{
		conn: pool,
	}
}

func NewReportsRepoWithConn(conn PgConnection) *ReportsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for reportsRepo: " + err.Error())
	}
	return &ReportsRepository{
		conn: conn,
	}
}

// UpsertDay writes the whole day's batch as one multi-row INSERT, so the
// submission succeeds or fails atomically without an explicit transaction.
func (rr *ReportsRepository) UpsertDay(ctx context.Context, reports []entity.DailyReport) error {
	if len(reports) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO daily_reports (student_id, habit_id, date, status, note) VALUES `)
	args := make([]any, 0, len(reports)*5)
	for i, rep := range reports {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5)
		args = append(args, rep.StudentID, rep.HabitID, rep.Date, rep.Status, rep.Note)
	}
	sb.WriteString(` ON CONFLICT (student_id, habit_id, date) DO UPDATE SET status = EXCLUDED.status, note = EXCLUDED.note, updated_at = NOW();`)
	_, err := rr.conn.Exec(ctx, sb.String(), args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return errorvalues.ErrHabitNotFound
			}
		}
		return errors.New("upserting daily reports error: " + err.Error())
	}
	return nil
}

func (rr *ReportsRepository) ListDay(ctx context.Context, studentID uuid.UUID, date time.Time) ([]entity.ReportEntry, error) {
	rows, err := rr.conn.Query(ctx,
		`SELECT r.id, r.student_id, r.habit_id, r.date, r.status, r.note, r.created_at, r.updated_at, h.title
		FROM daily_reports r
		JOIN habits h ON h.id = r.habit_id
		WHERE r.student_id = $1 AND r.date = $2;`,
		studentID,
		date,
	)
	if err != nil {
		return nil, errors.New("listing day reports error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.ReportEntry, 0, 7)
	for rows.Next() {
		entry := entity.ReportEntry{}
		err = rows.Scan(&entry.ID, &entry.StudentID, &entry.HabitID, &entry.Date, &entry.Status,
			&entry.Note, &entry.CreatedAt, &entry.UpdatedAt, &entry.HabitTitle)
		if err != nil {
			return nil, errors.New("scanning report entry error: " + err.Error())
		}
		result = append(result, entry)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected report rows error: " + rows.Err().Error())
	}
	return result, nil
}

func (rr *ReportsRepository) ListRange(ctx context.Context, studentID uuid.UUID, from, to time.Time) ([]entity.DailyReport, error) {
	rows, err := rr.conn.Query(ctx,
		`SELECT id, student_id, habit_id, date, status, note, created_at, updated_at
		FROM daily_reports WHERE student_id = $1 AND date >= $2 AND date <= $3 ORDER BY date DESC;`,
		studentID,
		from,
		to,
	)
	if err != nil {
		return nil, errors.New("listing reports for period error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.DailyReport, 0)
	for rows.Next() {
		rep := entity.DailyReport{}
		err = rows.Scan(&rep.ID, &rep.StudentID, &rep.HabitID, &rep.Date, &rep.Status,
			&rep.Note, &rep.CreatedAt, &rep.UpdatedAt)
		if err != nil {
			return nil, errors.New("scanning report row error: " + err.Error())
		}
		result = append(result, rep)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected report rows error: " + rows.Err().Error())
	}
	return result, nil
}

func (rr *ReportsRepository) ListByStudentsAndDate(ctx context.Context, studentIDs []uuid.UUID, date time.Time) ([]entity.DailyReport, error) {
	if len(studentIDs) == 0 {
		return []entity.DailyReport{}, nil
	}
	rows, err := rr.conn.Query(ctx,
		`SELECT id, student_id, habit_id, date, status, note, created_at, updated_at
		FROM daily_reports WHERE date = $1 AND student_id = ANY($2);`,
		date,
		studentIDs,
	)
	if err != nil {
		return nil, errors.New("listing class reports error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.DailyReport, 0)
	for rows.Next() {
		rep := entity.DailyReport{}
		err = rows.Scan(&rep.ID, &rep.StudentID, &rep.HabitID, &rep.Date, &rep.Status,
			&rep.Note, &rep.CreatedAt, &rep.UpdatedAt)
		if err != nil {
			return nil, errors.New("scanning report row error: " + err.Error())
		}
		result = append(result, rep)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected report rows error: " + rows.Err().Error())
	}
	return result, nil
}

func (rr *ReportsRepository) CountReporters(ctx context.Context, date time.Time) (int, error) {
	var count int
	row := rr.conn.QueryRow(ctx, `SELECT COUNT(DISTINCT student_id) FROM daily_reports WHERE date = $1;`, date)
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("counting reporters error: " + err.Error())
	}
	return count, nil
}
