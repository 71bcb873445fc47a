package types

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// --- ENUM Types ---

// DiabetesStatus is the self-reported diabetes condition of a user.
type DiabetesStatus string

const (
	DiabetesNone  DiabetesStatus = "해당 없음"
	DiabetesPre   DiabetesStatus = "당뇨 전단계"
	DiabetesType2 DiabetesStatus = "제2형 당뇨"
	DiabetesType1 DiabetesStatus = "제1형 당뇨"
)

// Valid reports whether s is one of the known statuses.
func (s DiabetesStatus) Valid() bool {
	switch s {
	case DiabetesNone, DiabetesPre, DiabetesType2, DiabetesType1:
		return true
	}
	return false
}

// RequiresSafetyCheck reports whether replies for this status go through the glycemic safety pass.
func (s DiabetesStatus) RequiresSafetyCheck() bool {
	return s != "" && s != DiabetesNone
}

// Scan implements the sql.Scanner interface for DiabetesStatus.
func (s *DiabetesStatus) Scan(value interface{}) error {
	str, err := scanEnumString(value, "DiabetesStatus")
	if err != nil {
		return err
	}
	if !DiabetesStatus(str).Valid() {
		return fmt.Errorf("unknown DiabetesStatus value: %s", str)
	}
	*s = DiabetesStatus(str)
	return nil
}

// Value implements the driver.Valuer interface for DiabetesStatus.
func (s DiabetesStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// ActivityLevel describes how physically active a user is.
type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "활동 적음 (앉아서 일함)"
	ActivityModerate ActivityLevel = "보통 (가벼운 운동)"
	ActivityHigh     ActivityLevel = "활동 많음 (육체 노동/운동함)"
)

func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivityLow, ActivityModerate, ActivityHigh:
		return true
	}
	return false
}

// Scan implements the sql.Scanner interface for ActivityLevel.
func (a *ActivityLevel) Scan(value interface{}) error {
	str, err := scanEnumString(value, "ActivityLevel")
	if err != nil {
		return err
	}
	if !ActivityLevel(str).Valid() {
		return fmt.Errorf("unknown ActivityLevel value: %s", str)
	}
	*a = ActivityLevel(str)
	return nil
}

// Value implements the driver.Valuer interface for ActivityLevel.
func (a ActivityLevel) Value() (driver.Value, error) {
	return string(a), nil
}

// HealthGoal is what the user wants to achieve with their diet.
type HealthGoal string

const (
	GoalWeightLoss HealthGoal = "체중 감량"
	GoalGlucose    HealthGoal = "혈당 안정"
	GoalMaintain   HealthGoal = "현재 유지"
	GoalMuscleGain HealthGoal = "근육 증가"
)

func (g HealthGoal) Valid() bool {
	switch g {
	case GoalWeightLoss, GoalGlucose, GoalMaintain, GoalMuscleGain:
		return true
	}
	return false
}

// Scan implements the sql.Scanner interface for HealthGoal.
func (g *HealthGoal) Scan(value interface{}) error {
	str, err := scanEnumString(value, "HealthGoal")
	if err != nil {
		return err
	}
	if !HealthGoal(str).Valid() {
		return fmt.Errorf("unknown HealthGoal value: %s", str)
	}
	*g = HealthGoal(str)
	return nil
}

// Value implements the driver.Valuer interface for HealthGoal.
func (g HealthGoal) Value() (driver.Value, error) {
	return string(g), nil
}

func scanEnumString(value interface{}, name string) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte: // Sometimes comes as bytes
		return string(v), nil
	default:
		return "", fmt.Errorf("failed to scan %s: expected string or []byte, got %T", name, value)
	}
}

// --- Entities ---

// UserAuth is the credential view of a user.
type UserAuth struct {
	ID        uuid.UUID `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"`
	Username  string    `json:"username" example:"johndoe"`
	Password  string    `json:"-"` // Hashed password (never exposed).
	CreatedAt time.Time `json:"created_at"`
}

// UserProfile holds the demographic and health data used to personalise analyses and chat.
// Every field except the identity is NULL until the user fills in the profile.
type UserProfile struct {
	ID            uuid.UUID       `json:"-"`
	Username      string          `json:"username" example:"johndoe"`
	Gender        *string         `json:"gender,omitempty" example:"여성"`
	Age           *int            `json:"age,omitempty" example:"42"`
	Height        *float64        `json:"height,omitempty" example:"165.5"`
	Weight        *float64        `json:"weight,omitempty" example:"61.2"`
	DiabetesType  *DiabetesStatus `json:"diabetes_type,omitempty" swaggertype:"string" example:"제2형 당뇨"`
	FastingSugar  *int            `json:"fasting_sugar,omitempty" example:"110"`
	HbA1c         *float64        `json:"hba1c,omitempty" example:"6.4"`
	ActivityLevel *ActivityLevel  `json:"activity_level,omitempty" swaggertype:"string" example:"보통 (가벼운 운동)"`
	HealthGoal    *HealthGoal     `json:"health_goal,omitempty" swaggertype:"string" example:"혈당 안정"`
}

// Diabetes returns the diabetes status, or an empty status when unset.
func (p *UserProfile) Diabetes() DiabetesStatus {
	if p == nil || p.DiabetesType == nil {
		return ""
	}
	return *p.DiabetesType
}

// Goal returns the health goal, or an empty goal when unset.
func (p *UserProfile) Goal() HealthGoal {
	if p == nil || p.HealthGoal == nil {
		return ""
	}
	return *p.HealthGoal
}

// UpdateProfileParams replaces every mutable profile field.
// FastingSugar and HbA1c are optional, the rest are required.
type UpdateProfileParams struct {
	Gender        string         `json:"gender" example:"여성"`
	Age           int            `json:"age" example:"42"`
	Height        float64        `json:"height" example:"165.5"`
	Weight        float64        `json:"weight" example:"61.2"`
	DiabetesType  DiabetesStatus `json:"diabetes_type" swaggertype:"string" example:"제2형 당뇨"`
	FastingSugar  *int           `json:"fasting_sugar,omitempty" example:"110"`
	HbA1c         *float64       `json:"hba1c,omitempty" example:"6.4"`
	ActivityLevel ActivityLevel  `json:"activity_level" swaggertype:"string" example:"보통 (가벼운 운동)"`
	HealthGoal    HealthGoal     `json:"health_goal" swaggertype:"string" example:"혈당 안정"`
}

// Validate checks ranges and enum membership.
func (p UpdateProfileParams) Validate() error {
	switch {
	case p.Gender == "":
		return fmt.Errorf("%w: gender is required", ErrInvalidInput)
	case p.Age <= 0 || p.Age > 150:
		return fmt.Errorf("%w: age must be between 1 and 150", ErrInvalidInput)
	case p.Height <= 0 || p.Height > 300:
		return fmt.Errorf("%w: height must be between 0 and 300 cm", ErrInvalidInput)
	case p.Weight <= 0 || p.Weight > 500:
		return fmt.Errorf("%w: weight must be between 0 and 500 kg", ErrInvalidInput)
	case !p.DiabetesType.Valid():
		return fmt.Errorf("%w: unknown diabetes_type %q", ErrInvalidInput, p.DiabetesType)
	case !p.ActivityLevel.Valid():
		return fmt.Errorf("%w: unknown activity_level %q", ErrInvalidInput, p.ActivityLevel)
	case !p.HealthGoal.Valid():
		return fmt.Errorf("%w: unknown health_goal %q", ErrInvalidInput, p.HealthGoal)
	case p.FastingSugar != nil && *p.FastingSugar <= 0:
		return fmt.Errorf("%w: fasting_sugar must be positive", ErrInvalidInput)
	case p.HbA1c != nil && (*p.HbA1c <= 0 || *p.HbA1c > 25):
		return fmt.Errorf("%w: hba1c must be between 0 and 25", ErrInvalidInput)
	}
	return nil
}
