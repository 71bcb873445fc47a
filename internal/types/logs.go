package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InputType records how a food log was submitted.
type InputType string

const (
	InputTypeText  InputType = "text"
	InputTypeImage InputType = "image"
)

// FoodLogEntry is one immutable analysis record.
type FoodLogEntry struct {
	ID                  uuid.UUID `json:"id"`
	OwnerID             uuid.UUID `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	InputType           InputType `json:"input_type" swaggertype:"string" example:"image"`
	FoodDescription     string    `json:"food_description" example:"비빔밥"`
	BloodSugarImpact    string    `json:"blood_sugar_impact" example:"중간"`
	CarbsRatio          int       `json:"carbs_ratio" example:"60"`
	ProteinRatio        int       `json:"protein_ratio" example:"20"`
	FatRatio            int       `json:"fat_ratio" example:"20"`
	Summary             string    `json:"summary"`
	ActionGuide         string    `json:"action_guide"`
	DetailedActionGuide string    `json:"detailed_action_guide"`
	Alternatives        string    `json:"alternatives"`
	ImageKey            *string   `json:"image_key,omitempty"` // Object-store key of the archived upload.
}

// CreateFoodLogParams are the values persisted after an analysis.
type CreateFoodLogParams struct {
	InputType InputType
	Analysis  NutritionAnalysis
	// Text is what the user typed; it names the meal when the model gave no food name.
	Text     string
	ImageKey *string
}

// UnknownFoodDescription is stored when neither the model nor the user named the meal.
const UnknownFoodDescription = "Unknown"

// FoodDescription is the value persisted in food_description.
func (p CreateFoodLogParams) FoodDescription() string {
	if name := strings.TrimSpace(p.Analysis.FoodName); name != "" {
		return name
	}
	if text := strings.TrimSpace(p.Text); text != "" {
		return text
	}
	return UnknownFoodDescription
}

// HealthLogEntry is one glucose reading.
type HealthLogEntry struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	SugarLevel int       `json:"sugar_level" example:"128"`
	Note       *string   `json:"note,omitempty" example:"식후 2시간"`
}

// CreateHealthLogParams is the request body for POST /health/sugar.
type CreateHealthLogParams struct {
	SugarLevel int     `json:"sugar_level" example:"128"`
	Note       *string `json:"note,omitempty" example:"식후 2시간"`
}

// Validate checks the reading and drops a blank note.
func (p *CreateHealthLogParams) Validate() error {
	if p.SugarLevel <= 0 {
		return fmt.Errorf("%w: sugar_level must be positive", ErrInvalidInput)
	}
	if p.Note != nil {
		note := strings.TrimSpace(*p.Note)
		if note == "" {
			p.Note = nil
		} else {
			p.Note = &note
		}
	}
	return nil
}
