package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/didi/internal/session"
)

// sessionRepo implements SessionRepo over the sessions table.
type sessionRepo struct {
	db *sql.DB
}

var sessionUpdateColumns = []string{
	"student_id", "lesson_id", "state", "language", "score", "questions_asked", "data", "updated_at",
}

func (r *sessionRepo) Save(ctx context.Context, s *session.Session) error {
	data, err := session.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	created, updated := s.CreatedAt.UTC(), s.UpdatedAt.UTC()
	if created.IsZero() {
		created = time.Now().UTC()
	}
	if updated.IsZero() {
		updated = created
	}

	q, args := sqlite.Insert(sessionsTable).
		Columns("id", "student_id", "lesson_id", "state", "language", "score", "questions_asked", "data", "created_at", "updated_at").
		Values(s.ID, s.StudentID, s.LessonID, string(s.CurrentState), string(s.PreferredLanguage), s.Score, s.QuestionsAsked, string(data), created, updated).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				for _, c := range sessionUpdateColumns {
					u.SetExcluded(c)
				}
			}),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*session.Session, error) {
	q, args := sqlite.Select("data").
		From(entsql.Table(sessionsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var data string
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	s, err := session.Unmarshal([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return s, nil
}

func (r *sessionRepo) List(ctx context.Context, opts ListOpts) ([]SessionInfo, error) {
	sel := sqlite.Select("id", "student_id", "lesson_id", "state", "language", "score", "questions_asked", "created_at", "updated_at").
		From(entsql.Table(sessionsTable)).
		OrderBy(entsql.Desc("updated_at"), "id")
	if opts.StudentID != "" {
		sel = sel.Where(entsql.EQ("student_id", opts.StudentID))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	q, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var (
			info            SessionInfo
			state, language string
		)
		if err := rows.Scan(&info.ID, &info.StudentID, &info.LessonID, &state, &language,
			&info.Score, &info.QuestionsAsked, &info.CreatedAt, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		info.State = session.State(state)
		info.Language = session.Language(language)
		out = append(out, info)
	}
	return out, rows.Err()
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	q, args := sqlite.Delete(sessionsTable).Where(entsql.EQ("id", id)).Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
