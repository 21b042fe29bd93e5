package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
	"github.com/yash81300/arogyamitra/pkg"
)

const userColumns = `
	id, email, username, password_hash, full_name, age, gender, height, weight,
	fitness_level, fitness_goal, workout_preference, diet_preference, role, is_active,
	phone, bio, profile_photo_url, calendar_token IS NOT NULL,
	points, milestone_count, activity_count, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	if err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FullName,
		&u.Age, &u.Gender, &u.Height, &u.Weight,
		&u.FitnessLevel, &u.FitnessGoal, &u.WorkoutPreference, &u.DietPreference,
		&u.Role, &u.IsActive, &u.Phone, &u.Bio, &u.ProfilePhotoURL, &u.CalendarConnected,
		&u.Points, &u.MilestoneCount, &u.ActivityCount, &u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *Repo) Create(ctx context.Context, req RegisterRequest, passwordHash string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer tracing.EndSpanWithErrCheck(span, &err)

	row := r.db.QueryRow(ctx, `
		INSERT INTO app_user (
			email, username, password_hash, full_name, age, gender, height, weight,
			fitness_level, fitness_goal, workout_preference, diet_preference
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+userColumns,
		req.Email, req.Username, passwordHash, req.FullName,
		req.Age, req.Gender, req.Height, req.Weight,
		req.FitnessLevel, req.FitnessGoal, req.WorkoutPreference, req.DietPreference,
	)

	u, err := scanUser(row)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			if pkg.UniqueViolationConstraint(err) == "app_user_username_key" {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer tracing.EndSpanWithErrCheck(span, &err)
	span.SetAttributes(attribute.Int64("user.id", id))

	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM app_user WHERE id = $1`, id))
}

// GetByLogin finds the user by username or (case insensitive) email.
func (r *Repo) GetByLogin(ctx context.Context, login string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByLogin")
	defer tracing.EndSpanWithErrCheck(span, &err)

	return scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM app_user
		WHERE username = $1 OR email = lower($1)
		LIMIT 1
	`, login))
}

func (r *Repo) UpdateProfile(ctx context.Context, u *User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updateProfile")
	defer tracing.EndSpanWithErrCheck(span, &err)
	span.SetAttributes(attribute.Int64("user.id", u.ID))

	return scanUser(r.db.QueryRow(ctx, `
		UPDATE app_user
		SET full_name = $2, age = $3, gender = $4, height = $5, weight = $6,
		    fitness_level = $7, fitness_goal = $8, workout_preference = $9, diet_preference = $10,
		    phone = $11, bio = $12, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		u.ID, u.FullName, u.Age, u.Gender, u.Height, u.Weight,
		u.FitnessLevel, u.FitnessGoal, u.WorkoutPreference, u.DietPreference,
		u.Phone, u.Bio,
	))
}

// SetPhotoURL stores the profile photo url, nil removes it.
func (r *Repo) SetPhotoURL(ctx context.Context, id int64, url *string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.setPhotoURL")
	defer tracing.EndSpanWithErrCheck(span, &err)

	tag, err := r.db.Exec(ctx, `
		UPDATE app_user SET profile_photo_url = $2, updated_at = now() WHERE id = $1
	`, id, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repo) CalendarToken(ctx context.Context, id int64) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.calendarToken")
	defer tracing.EndSpanWithErrCheck(span, &err)

	var token []byte
	if err := r.db.QueryRow(ctx, `SELECT calendar_token FROM app_user WHERE id = $1`, id).Scan(&token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return token, nil
}

// SetCalendarToken stores the oauth token json, nil disconnects the calendar.
func (r *Repo) SetCalendarToken(ctx context.Context, id int64, token []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.setCalendarToken")
	defer tracing.EndSpanWithErrCheck(span, &err)

	var arg any
	if token != nil {
		arg = string(token)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE app_user SET calendar_token = $2::jsonb, updated_at = now() WHERE id = $1
	`, id, arg)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repo) List(ctx context.Context, limit, offset int) (_ []User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.list")
	defer tracing.EndSpanWithErrCheck(span, &err)

	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM app_user
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.delete")
	defer tracing.EndSpanWithErrCheck(span, &err)

	tag, err := r.db.Exec(ctx, `DELETE FROM app_user WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repo) Stats(ctx context.Context) (_ Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.stats")
	defer tracing.EndSpanWithErrCheck(span, &err)

	var stats Stats
	err = r.db.QueryRow(ctx, `
		SELECT count(*), count(*) FILTER (WHERE is_active)
		FROM app_user
	`).Scan(&stats.TotalUsers, &stats.ActiveUsers)
	return stats, err
}
