package users

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/yash81300/arogyamitra/pkg"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrIncorrectLogin     = errors.New("incorrect credentials")
	ErrForbidden          = errors.New("not allowed")
	ErrPhotoStoreDisabled = errors.New("photo storage not configured")
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	minPasswordLength = 8
)

type User struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	Username          string    `json:"username"`
	PasswordHash      string    `json:"-"`
	FullName          string    `json:"full_name"`
	Age               *int      `json:"age"`
	Gender            *string   `json:"gender"`
	Height            *float64  `json:"height"`
	Weight            *float64  `json:"weight"`
	FitnessLevel      string    `json:"fitness_level"`
	FitnessGoal       string    `json:"fitness_goal"`
	WorkoutPreference string    `json:"workout_preference"`
	DietPreference    string    `json:"diet_preference"`
	Role              string    `json:"role"`
	IsActive          bool      `json:"is_active"`
	Phone             *string   `json:"phone"`
	Bio               *string   `json:"bio"`
	ProfilePhotoURL   *string   `json:"profile_photo_url"`
	CalendarConnected bool      `json:"calendar_connected"`
	Points            int       `json:"points"`
	MilestoneCount    int       `json:"milestone_count"`
	ActivityCount     int       `json:"activity_count"`
	CreatedAt         time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile is the subset of the account the AI collaborators work with.
type Profile struct {
	Username          string
	FullName          string
	Age               *int
	Gender            *string
	Height            *float64
	Weight            *float64
	FitnessLevel      string
	FitnessGoal       string
	WorkoutPreference string
	DietPreference    string
	Points            int
	ActivityCount     int
}

func (u *User) Profile() Profile {
	return Profile{
		Username:          u.Username,
		FullName:          u.FullName,
		Age:               u.Age,
		Gender:            u.Gender,
		Height:            u.Height,
		Weight:            u.Weight,
		FitnessLevel:      u.FitnessLevel,
		FitnessGoal:       u.FitnessGoal,
		WorkoutPreference: u.WorkoutPreference,
		DietPreference:    u.DietPreference,
		Points:            u.Points,
		ActivityCount:     u.ActivityCount,
	}
}

// ProfileUpdate carries optional profile fields, nil means unchanged.
type ProfileUpdate struct {
	FullName          *string  `json:"full_name"`
	Age               *int     `json:"age"`
	Gender            *string  `json:"gender"`
	Height            *float64 `json:"height"`
	Weight            *float64 `json:"weight"`
	FitnessLevel      *string  `json:"fitness_level"`
	FitnessGoal       *string  `json:"fitness_goal"`
	WorkoutPreference *string  `json:"workout_preference"`
	DietPreference    *string  `json:"diet_preference"`
	Phone             *string  `json:"phone"`
	Bio               *string  `json:"bio"`
}

func (p ProfileUpdate) Validate() error {
	return validateBodyBounds(p.Age, p.Height, p.Weight)
}

func (p ProfileUpdate) applyTo(u *User) {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Age != nil {
		u.Age = p.Age
	}
	if p.Gender != nil {
		u.Gender = p.Gender
	}
	if p.Height != nil {
		u.Height = p.Height
	}
	if p.Weight != nil {
		u.Weight = p.Weight
	}
	if p.FitnessLevel != nil {
		u.FitnessLevel = *p.FitnessLevel
	}
	if p.FitnessGoal != nil {
		u.FitnessGoal = *p.FitnessGoal
	}
	if p.WorkoutPreference != nil {
		u.WorkoutPreference = *p.WorkoutPreference
	}
	if p.DietPreference != nil {
		u.DietPreference = *p.DietPreference
	}
	if p.Phone != nil {
		u.Phone = p.Phone
	}
	if p.Bio != nil {
		u.Bio = p.Bio
	}
}

type RegisterRequest struct {
	Email             string   `json:"email"`
	Username          string   `json:"username"`
	Password          string   `json:"password"`
	FullName          string   `json:"full_name"`
	Age               *int     `json:"age"`
	Gender            *string  `json:"gender"`
	Height            *float64 `json:"height"`
	Weight            *float64 `json:"weight"`
	FitnessLevel      string   `json:"fitness_level"`
	FitnessGoal       string   `json:"fitness_goal"`
	WorkoutPreference string   `json:"workout_preference"`
	DietPreference    string   `json:"diet_preference"`
}

func (r *RegisterRequest) normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Username = strings.TrimSpace(r.Username)
	if r.FitnessLevel == "" {
		r.FitnessLevel = "beginner"
	}
	if r.FitnessGoal == "" {
		r.FitnessGoal = "maintenance"
	}
	if r.WorkoutPreference == "" {
		r.WorkoutPreference = "home"
	}
	if r.DietPreference == "" {
		r.DietPreference = "vegetarian"
	}
}

func (r *RegisterRequest) Validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return pkg.NewValidationError("email", "invalid email address")
	}
	if r.Username == "" {
		return pkg.NewValidationError("username", "must not be empty")
	}
	if len(r.Password) < minPasswordLength {
		return pkg.NewValidationError("password", "must be at least %d characters", minPasswordLength)
	}
	return validateBodyBounds(r.Age, r.Height, r.Weight)
}

func validateBodyBounds(age *int, height, weight *float64) error {
	if age != nil && (*age < 5 || *age > 120) {
		return pkg.NewValidationError("age", "must be between 5 and 120")
	}
	if height != nil && (*height < 50 || *height > 300) {
		return pkg.NewValidationError("height", "must be between 50 and 300 cm")
	}
	if weight != nil && (*weight < 10 || *weight > 500) {
		return pkg.NewValidationError("weight", "must be between 10 and 500 kg")
	}
	return nil
}

type Stats struct {
	TotalUsers  int `json:"total_users"`
	ActiveUsers int `json:"active_users"`
}
