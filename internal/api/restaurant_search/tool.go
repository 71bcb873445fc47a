package restaurantSearch

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

// ToolName is the function name the model uses to request a search.
const ToolName = "search_restaurants"

// Declaration describes the search tool to the model.
func Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        ToolName,
		Description: "식당, 맛집 추천 요청 시 실제 장소를 검색합니다.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"location": {
					Type:        genai.TypeString,
					Description: "검색할 지역 이름 (예: 강남역, 완정역)",
				},
				"menu_keyword": {
					Type:        genai.TypeString,
					Description: "검색할 메뉴 키워드 (구체적인 메뉴명보다는 '카테고리' 권장)",
				},
			},
			Required: []string{"location", "menu_keyword"},
		},
	}
}

// ArgsFromCall extracts the location and keyword of a search tool call.
func ArgsFromCall(call types.ToolCall) (location, keyword string, err error) {
	location, _ = call.Args["location"].(string)
	keyword, _ = call.Args["menu_keyword"].(string)
	location = strings.TrimSpace(location)
	keyword = strings.TrimSpace(keyword)
	if location == "" && keyword == "" {
		return "", "", fmt.Errorf("%w: search needs a location or a menu keyword", types.ErrInvalidInput)
	}
	return location, keyword, nil
}
