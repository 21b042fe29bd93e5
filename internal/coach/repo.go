package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yash81300/arogyamitra/internal/aiagent"
	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
)

var ErrNoSession = errors.New("no chat session")

const sessionColumns = `id, user_id, messages, context, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func scanSession(row pgx.Row) (*Session, error) {
	s := &Session{}
	var messages, sessionContext []byte
	if err := row.Scan(&s.ID, &s.UserID, &messages, &sessionContext, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	s.Messages = []aiagent.ChatMessage{}
	if err := json.Unmarshal(messages, &s.Messages); err != nil {
		return nil, fmt.Errorf("unmarshal chat messages: %w", err)
	}
	s.Context = map[string]any{}
	if err := json.Unmarshal(sessionContext, &s.Context); err != nil {
		return nil, fmt.Errorf("unmarshal chat context: %w", err)
	}
	return s, nil
}

// GetOrCreate returns the session of the user, creating an empty one first
// if needed.
func (r *Repo) GetOrCreate(ctx context.Context, userID int64) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.coach.getOrCreate")
	defer tracing.EndSpanWithErrCheck(span, &err)

	return scanSession(r.db.QueryRow(ctx, `
		INSERT INTO chat_session (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING `+sessionColumns,
		userID,
	))
}

func (r *Repo) Get(ctx context.Context, userID int64) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.coach.get")
	defer tracing.EndSpanWithErrCheck(span, &err)

	return scanSession(r.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM chat_session
		WHERE user_id = $1
	`, userID))
}

// AppendMessages adds messages to the end of the stored conversation and
// keeps only the newest MaxStoredMessages of them.
func (r *Repo) AppendMessages(ctx context.Context, userID int64, messages []aiagent.ChatMessage, sessionContext map[string]any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.coach.appendMessages")
	defer tracing.EndSpanWithErrCheck(span, &err)

	messagesJSON, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	if sessionContext == nil {
		sessionContext = map[string]any{}
	}
	contextJSON, err := json.Marshal(sessionContext)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE chat_session
		SET messages = (
		        SELECT COALESCE(jsonb_agg(m ORDER BY n), '[]'::jsonb)
		        FROM (
		            SELECT m, n
		            FROM jsonb_array_elements(messages || $2::jsonb) WITH ORDINALITY AS t(m, n)
		            ORDER BY n DESC
		            LIMIT $3
		        ) newest
		    ),
		    context = context || $4::jsonb,
		    updated_at = now()
		WHERE user_id = $1
	`, userID, messagesJSON, MaxStoredMessages, contextJSON)
	if err != nil {
		return fmt.Errorf("append chat messages: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoSession
	}
	return nil
}

func (r *Repo) ClearMessages(ctx context.Context, userID int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.coach.clearMessages")
	defer tracing.EndSpanWithErrCheck(span, &err)

	_, err = r.db.Exec(ctx, `
		UPDATE chat_session
		SET messages = '[]'::jsonb, updated_at = now()
		WHERE user_id = $1
	`, userID)
	return err
}
