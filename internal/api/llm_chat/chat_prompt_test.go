package llmChat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

var seoul = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		panic(err)
	}
	return loc
}()

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 1, hour, minute, 0, 0, seoul)
}

// Dishes that belong to the meal policy only.
var mealDishes = []string{"비빔밥", "생선구이 정식", "쌈밥", "순두부찌개", "추어탕", "샤브샤브", "회덮밥", "초밥", "보쌈", "닭백숙"}

func TestDetectRegime(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		now        time.Time
		wantRegime Regime
		wantSource RegimeSource
	}{
		{"early morning by clock", "뭐 먹지?", at(5, 0), RegimeBreakfast, SourceClock},
		{"last breakfast minute", "뭐 먹지?", at(10, 59), RegimeBreakfast, SourceClock},
		{"lunch by clock", "뭐 먹지?", at(11, 0), RegimeMeal, SourceClock},
		{"last meal minute", "뭐 먹지?", at(20, 59), RegimeMeal, SourceClock},
		{"late night starts at 21", "뭐 먹지?", at(21, 0), RegimeLateNight, SourceClock},
		{"after midnight", "뭐 먹지?", at(4, 59), RegimeLateNight, SourceClock},
		{"late-night intent at noon", "낮이지만 야식 추천해줘", at(12, 0), RegimeLateNight, SourceIntent},
		{"before bed intent", "자기 전에 먹을 거", at(15, 0), RegimeLateNight, SourceIntent},
		{"breakfast intent at night", "내일 아침 메뉴 알려줘", at(23, 0), RegimeBreakfast, SourceIntent},
		{"dinner intent late", "저녁 추천해줘", at(22, 0), RegimeMeal, SourceIntent},
		{"late-night wins over dinner", "저녁 먹고 야식으로", at(19, 0), RegimeLateNight, SourceIntent},
		{"meal-replacement wording keeps the clock", "식사 대용으로 가볍게 뭐 먹지", at(23, 0), RegimeLateNight, SourceClock},
		{"generic meal word at lunch", "식사 메뉴 추천", at(12, 30), RegimeMeal, SourceClock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regime, source := DetectRegime(tt.text, tt.now)
			assert.Equal(t, tt.wantRegime, regime)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestBuildSystemPrompt_LateNightExcludesMealMenu(t *testing.T) {
	now := at(21, 30)
	regime, source := DetectRegime("강남역 근처 뭐 먹을까?", now)
	assert.Equal(t, RegimeLateNight, regime)

	prompt := BuildSystemPrompt(PromptContext{Now: now, Regime: regime, Source: source})

	for _, dish := range mealDishes {
		assert.NotContains(t, prompt, dish)
	}
	assert.Contains(t, prompt, "두유")
	assert.Contains(t, prompt, "삶은 계란")
	assert.Contains(t, prompt, "편의점")
	assert.Contains(t, prompt, "현재 서버 시간: 21시 30분")
	assert.Contains(t, prompt, "적용 시간대: 야식/심야 (현재 시간 기준)")
}

func TestBuildSystemPrompt_MealPolicyAndContext(t *testing.T) {
	diabetes, goal := types.DiabetesType2, types.GoalGlucose
	profile := &types.UserProfile{DiabetesType: &diabetes, HealthGoal: &goal}
	logs := []types.FoodLogEntry{
		{FoodDescription: "짜장면", CreatedAt: time.Date(2025, 3, 1, 3, 5, 0, 0, time.UTC)},
	}

	prompt := BuildSystemPrompt(PromptContext{Now: at(12, 40), Profile: profile, RecentLogs: logs, Regime: RegimeMeal, Source: SourceClock})

	assert.Contains(t, prompt, "순두부찌개")
	assert.NotContains(t, prompt, "연두부")
	assert.Contains(t, prompt, "샐러드만 추천하지 마세요")
	assert.Contains(t, prompt, "NOT_FOUND")
	assert.Contains(t, prompt, "상위 카테고리")
	assert.Contains(t, prompt, "당뇨 상태: 제2형 당뇨")
	assert.Contains(t, prompt, "목표: 혈당 안정")
	assert.Contains(t, prompt, "- 12:05 섭취: 짜장면")
}

func TestBuildSystemPrompt_EmptyProfileDefaults(t *testing.T) {
	prompt := BuildSystemPrompt(PromptContext{Now: at(8, 0), Regime: RegimeBreakfast, Source: SourceIntent})

	assert.Contains(t, prompt, "당뇨 상태: 정보 없음")
	assert.Contains(t, prompt, "목표: 건강 관리")
	assert.Contains(t, prompt, "최근 기록 없음")
	assert.Contains(t, prompt, "오트밀")
	assert.Contains(t, prompt, "(사용자 요청 기준)")
}

func TestRecentLogsText(t *testing.T) {
	entries := []types.FoodLogEntry{
		{FoodDescription: "샐러드", CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{FoodDescription: "김밥", CreatedAt: time.Date(2025, 3, 1, 0, 30, 0, 0, time.UTC)},
	}
	got := RecentLogsText(entries, seoul)
	assert.Equal(t, "- 19:00 섭취: 샐러드\n- 09:30 섭취: 김밥", got)
	assert.Equal(t, 2, len(strings.Split(got, "\n")))
}
