package nutrition

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

const analysisInstruction = `당신은 당뇨/다이어트 전문 영양사입니다. 입력된 음식(사진 또는 설명)을 분석하여 JSON 객체 하나로 반환하세요.
모든 설명은 한국어로 작성합니다.
- food_name: 음식 이름
- blood_sugar_impact: 혈당 영향 (낮음, 중간, 높음 중 하나)
- carbs_ratio, protein_ratio, fat_ratio: 탄수화물/단백질/지방 비율(%)이며 합이 100이 되도록
- summary: 한두 문장 요약
- action_guide: 지금 바로 할 수 있는 짧은 행동 지침
- detailed_action_guide: 식사 순서, 양 조절, 식후 활동을 포함한 자세한 지침
- alternatives: 혈당 부담이 더 낮은 대체 메뉴`

// analysisSchema constrains the model output to types.NutritionAnalysis.
var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"food_name":             {Type: genai.TypeString},
		"blood_sugar_impact":    {Type: genai.TypeString, Enum: []string{"낮음", "중간", "높음"}},
		"carbs_ratio":           {Type: genai.TypeInteger},
		"protein_ratio":         {Type: genai.TypeInteger},
		"fat_ratio":             {Type: genai.TypeInteger},
		"summary":               {Type: genai.TypeString},
		"action_guide":          {Type: genai.TypeString},
		"detailed_action_guide": {Type: genai.TypeString},
		"alternatives":          {Type: genai.TypeString},
	},
	Required: []string{
		"food_name", "blood_sugar_impact", "carbs_ratio", "protein_ratio", "fat_ratio",
		"summary", "action_guide", "detailed_action_guide", "alternatives",
	},
	PropertyOrdering: []string{
		"food_name", "blood_sugar_impact", "carbs_ratio", "protein_ratio", "fat_ratio",
		"summary", "action_guide", "detailed_action_guide", "alternatives",
	},
}

// systemInstruction appends the profile context to the fixed analysis instruction.
func systemInstruction(profile *types.UserProfile) string {
	if profile == nil {
		return analysisInstruction
	}

	var sb strings.Builder
	sb.WriteString(analysisInstruction)
	sb.WriteString("\n\n[사용자 정보]\n")
	fmt.Fprintf(&sb, "- 당뇨 상태: %s\n", orUnknown(string(profile.Diabetes())))
	fmt.Fprintf(&sb, "- 목표: %s\n", orUnknown(string(profile.Goal())))
	if profile.Age != nil {
		fmt.Fprintf(&sb, "- 나이: %d\n", *profile.Age)
	}
	if profile.Gender != nil && *profile.Gender != "" {
		fmt.Fprintf(&sb, "- 성별: %s\n", *profile.Gender)
	}
	return sb.String()
}

func userPrompt(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "사진 속 음식을 분석해 주세요."
	}
	return text
}

func orUnknown(s string) string {
	if s == "" {
		return "정보 없음"
	}
	return s
}
