package llmChat

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

// Regime is the meal-time policy applied to a conversation.
type Regime string

const (
	RegimeBreakfast Regime = "breakfast"
	RegimeMeal      Regime = "meal"
	RegimeLateNight Regime = "late_night"
)

// RegimeSource records whether the regime came from the user's words or the clock.
type RegimeSource string

const (
	SourceIntent RegimeSource = "intent"
	SourceClock  RegimeSource = "clock"
)

// Checked in order; late-night words win over meal words ("저녁 늦게 야식").
// Generic words like "식사" are left out since "식사 대용" asks for something light.
var intentKeywords = []struct {
	regime   Regime
	keywords []string
}{
	{RegimeLateNight, []string{"야식", "심야", "자기 전", "자기전", "잠들기 전"}},
	{RegimeBreakfast, []string{"아침", "조식", "브런치"}},
	{RegimeMeal, []string{"점심", "저녁"}},
}

// DetectRegime picks the regime from explicit intent in text, falling back to the hour of now.
func DetectRegime(text string, now time.Time) (Regime, RegimeSource) {
	for _, entry := range intentKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				return entry.regime, SourceIntent
			}
		}
	}
	return regimeForHour(now.Hour()), SourceClock
}

func regimeForHour(hour int) Regime {
	switch {
	case hour >= 5 && hour < 11:
		return RegimeBreakfast
	case hour >= 11 && hour < 21:
		return RegimeMeal
	default:
		return RegimeLateNight
	}
}

func (r Regime) label() string {
	switch r {
	case RegimeBreakfast:
		return "아침"
	case RegimeLateNight:
		return "야식/심야"
	default:
		return "점심/저녁 (식사 시간)"
	}
}

// MenuPolicy is the allowed-menu guidance for one regime. Only the active regime is ever rendered.
func MenuPolicy(r Regime) string {
	switch r {
	case RegimeBreakfast:
		return `- 아침: 뇌를 깨우는 가벼운 탄수화물과 단백질 조합을 추천하세요.
  - 예: 그릭요거트, 오트밀, 통곡물 샌드위치, 삶은 계란과 과일.`
	case RegimeLateNight:
		return `- 야식/심야: 지금은 식사 메뉴 추천을 멈추세요.
  - 경고: 밥, 국물, 면 위주의 든든한 한 끼는 혈당과 수면에 부담이 됩니다. 절대 추천하지 마세요.
  - 추천: 따뜻한 우유나 두유, 연두부, 오이/당근 스틱, 삶은 계란, 방울토마토.
  - 식당 검색보다 편의점 메뉴나 집에서 바로 먹을 수 있는 메뉴를 먼저 제안하세요.`
	default:
		return `- 점심/저녁: 샐러드만 추천하지 마세요. 사용자는 맛있는 한 끼를 원합니다.
  - 한식: 현미 비빔밥, 생선구이 정식, 쌈밥, 순두부찌개, 추어탕, 샤브샤브.
  - 일식: 회덮밥, 초밥(밥 적게), 맑은 지리탕.
  - 고기: 오리고기, 보쌈/수육, 닭백숙.
  - 직전 끼니가 면이나 빵이었다면 한식 정식을 우선 추천하세요.`
	}
}

const personaInstruction = `당신은 센스 있고 현실적인 AI 영양사 '오늘뭐먹지.ai'입니다.

[1단계: 시간대와 의도]
- 사용자가 말한 의도(예: "야식 추천해줘")가 현재 시각보다 우선합니다.
- 아래 [적용 시간대]는 이 규칙에 따라 이미 결정되었습니다. 그 시간대의 메뉴 규칙만 따르세요.

[2단계: 메뉴 선정]
- 같은 메뉴, 특히 샐러드 한 가지만 반복해서 추천하지 말고 다양한 선택지를 제시하세요.
%s

[3단계: 검색 키워드와 도구 사용]
- 사용자가 장소를 말하면 search_restaurants 도구로 실제 식당을 찾으세요.
- 검색이 잘 되도록 구체적인 요리명 대신 상위 카테고리를 키워드로 쓰세요.
  - (X) 완정역 연어 스테이크 -> (O) 완정역 생선구이, 완정역 일식
  - (X) 강남역 곤약 떡볶이 -> (O) 강남역 키토, 강남역 샐러드

[4단계: 예외 처리]
- 도구 결과가 "NOT_FOUND"이면 솔직하게 알리고, 주변에 있을 법한 다른 건강 메뉴(예: 서브웨이, 국밥집)를 대안으로 제시하세요.
- 도구 결과에 error가 있으면 검색이 잠시 불가능하다고 알리고 메뉴 추천만 하세요.`

// PromptContext is everything the system prompt is rendered from.
type PromptContext struct {
	Now        time.Time
	Profile    *types.UserProfile
	RecentLogs []types.FoodLogEntry
	Regime     Regime
	Source     RegimeSource
}

// BuildSystemPrompt renders the persona, the active menu policy and the user context block.
func BuildSystemPrompt(pc PromptContext) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(personaInstruction, MenuPolicy(pc.Regime)))
	sb.WriteString("\n\n")
	sb.WriteString(contextBlock(pc))
	return sb.String()
}

func contextBlock(pc PromptContext) string {
	diabetes, goal := "정보 없음", "건강 관리"
	if pc.Profile != nil {
		if d := pc.Profile.Diabetes(); d != "" {
			diabetes = string(d)
		}
		if g := pc.Profile.Goal(); g != "" {
			goal = string(g)
		}
	}

	source := "현재 시간 기준"
	if pc.Source == SourceIntent {
		source = "사용자 요청 기준"
	}

	var sb strings.Builder
	sb.WriteString("[시스템 정보]\n")
	sb.WriteString(fmt.Sprintf("- 현재 서버 시간: %02d시 %02d분\n", pc.Now.Hour(), pc.Now.Minute()))
	sb.WriteString(fmt.Sprintf("- 적용 시간대: %s (%s)\n", pc.Regime.label(), source))
	sb.WriteString("[사용자 프로필]\n")
	sb.WriteString(fmt.Sprintf("- 당뇨 상태: %s\n", diabetes))
	sb.WriteString(fmt.Sprintf("- 목표: %s\n", goal))
	sb.WriteString("[최근 식사 기록 (매우 중요)]\n")
	sb.WriteString(RecentLogsText(pc.RecentLogs, pc.Now.Location()))
	return sb.String()
}

// RecentLogsText renders one "- HH:MM 섭취: desc" line per entry in loc.
func RecentLogsText(entries []types.FoodLogEntry, loc *time.Location) string {
	if len(entries) == 0 {
		return "최근 기록 없음"
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("- %s 섭취: %s", e.CreatedAt.In(loc).Format("15:04"), e.FoodDescription))
	}
	return strings.Join(lines, "\n")
}

const safetyInstruction = `당신은 당뇨 환자를 위한 식단 안전 검토자입니다.
AI 영양사의 답변 초안을 읽고 다음 중 하나라도 해당하면 DANGER, 아니면 SAFE로 판정하세요.
- 혈당 지수가 높은 음식(흰쌀밥, 비빔밥, 국밥, 면류, 떡, 빵, 단 음료 등)을 야식이나 늦은 시간 메뉴로 추천한다.
- 혈당 지수가 높은 음식을 "강력 추천"하거나 제한 없이 권한다.
DANGER이면 reason에 문제가 된 메뉴와 이유를 한 문장으로 적으세요. SAFE이면 reason은 비워 두세요.`

var safetySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"verdict": {
			Type: genai.TypeString,
			Enum: []string{string(types.VerdictSafe), string(types.VerdictDanger)},
		},
		"reason": {Type: genai.TypeString},
	},
	Required:         []string{"verdict", "reason"},
	PropertyOrdering: []string{"verdict", "reason"},
}

func safetyPrompt(diabetes types.DiabetesStatus, regime Regime, draft string) string {
	return fmt.Sprintf("[사용자 당뇨 상태] %s\n[적용 시간대] %s\n[답변 초안]\n%s", diabetes, regime.label(), draft)
}

// SafetyDisclaimer is appended when an answer could not be confirmed as safe.
const SafetyDisclaimer = "※ 안전 안내: 이 답변은 혈당 관리 기준으로 완전히 검증되지 않았습니다. " +
	"혈당 지수가 높은 음식은 양을 줄이거나 피하시고, 식단은 담당 의료진과 상의하세요."

// UnavailableReply is returned to the client when the assistant could not answer.
const UnavailableReply = "죄송합니다. 지금은 AI 영양사와 연결할 수 없습니다. 잠시 후 다시 시도해 주세요."
