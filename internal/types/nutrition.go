package types

import "strings"

// Sentinel values returned when an analysis could not be produced.
const (
	AnalysisFailedFoodName = "Error"
	AnalysisUnknownImpact  = "알 수 없음"
	AnalysisFailedSummary  = "분석 실패"
)

// NutritionAnalysis is the structured assessment of one meal.
type NutritionAnalysis struct {
	FoodName            string `json:"food_name" example:"현미 비빔밥"`
	BloodSugarImpact    string `json:"blood_sugar_impact" example:"중간"`
	CarbsRatio          int    `json:"carbs_ratio" example:"60"`
	ProteinRatio        int    `json:"protein_ratio" example:"20"`
	FatRatio            int    `json:"fat_ratio" example:"20"`
	Summary             string `json:"summary"`
	ActionGuide         string `json:"action_guide"`
	DetailedActionGuide string `json:"detailed_action_guide"`
	Alternatives        string `json:"alternatives"`
}

// FailedAnalysis returns the sentinel result used in place of an error.
func FailedAnalysis() NutritionAnalysis {
	return NutritionAnalysis{
		FoodName:         AnalysisFailedFoodName,
		BloodSugarImpact: AnalysisUnknownImpact,
		Summary:          AnalysisFailedSummary,
	}
}

// Failed reports whether a is the sentinel failure result.
func (a NutritionAnalysis) Failed() bool {
	return a.FoodName == AnalysisFailedFoodName && a.Summary == AnalysisFailedSummary
}

// ImageUpload is an image submitted for analysis.
type ImageUpload struct {
	MIMEType string
	Data     []byte
}

// AnalysisInput is what the analyzer receives for one meal. At least one of Text and Image
// must be present for the model to be called.
type AnalysisInput struct {
	Text    string
	Image   *ImageUpload
	Profile *UserProfile
}

// Empty reports whether there is nothing to analyse.
func (in AnalysisInput) Empty() bool {
	return strings.TrimSpace(in.Text) == "" && (in.Image == nil || len(in.Image.Data) == 0)
}
