package planner

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/brightsky/go-activity-planner/internal/types"
)

// MockGenerator is a mock implementation of Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

const validPlanJSON = `{
	"summary": {"conditions": "Partly cloudy and mild", "temp_range_c": "18-24°C", "temp_range_f": "64-75°F", "precip_chance": "10%"},
	"morning": [{"name": "Ueno Park walk", "description": "Stroll through the park before the crowds.", "location": "Ueno", "timing": "09:00-11:00"}],
	"afternoon": [{"name": "Sumida river cruise", "description": "Open-deck cruise with skyline views.", "location": "Asakusa"}],
	"indoor": [{"name": "Tokyo National Museum", "description": "Japan's largest art and antiquities collection.", "location": "Ueno"}],
	"warnings": []
}`

func clearSnapshot() *types.WeatherSnapshot {
	return &types.WeatherSnapshot{
		Temperature:   21.0,
		FeelsLike:     21.5,
		Humidity:      60,
		WindSpeed:     3.0,
		WindGust:      5.0,
		ConditionCode: 2,
		Conditions:    "Partly cloudy",
		Location:      "Tokyo",
	}
}

func stormSnapshot() *types.WeatherSnapshot {
	return &types.WeatherSnapshot{
		Temperature:   18.0,
		FeelsLike:     18.0,
		Humidity:      88,
		WindSpeed:     8.0,
		WindGust:      20.0,
		ConditionCode: 95,
		Conditions:    "Thunderstorm",
		Location:      "Tokyo",
	}
}

func TestSynthesize(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	tests := []struct {
		name        string
		snapshot    *types.WeatherSnapshot
		response    string
		expectedErr error
		check       func(t *testing.T, plan *types.ActivityPlan)
	}{
		{
			name:     "Success",
			snapshot: clearSnapshot(),
			response: validPlanJSON,
			check: func(t *testing.T, plan *types.ActivityPlan) {
				assert.NotEqual(t, plan.ID.String(), "00000000-0000-0000-0000-000000000000")
				assert.Equal(t, "Partly cloudy and mild", plan.Summary.Conditions)
				assert.NotEmpty(t, plan.Morning)
				assert.NotEmpty(t, plan.Afternoon)
				assert.NotNil(t, plan.Warnings)
			},
		},
		{
			name:     "Markdown fences are stripped",
			snapshot: clearSnapshot(),
			response: "```json\n" + validPlanJSON + "\n```",
			check: func(t *testing.T, plan *types.ActivityPlan) {
				assert.Equal(t, "Partly cloudy and mild", plan.Summary.Conditions)
			},
		},
		{
			name:        "Unparseable response",
			snapshot:    clearSnapshot(),
			response:    "Sorry, I can't help with that.",
			expectedErr: types.ErrPlanFormat,
		},
		{
			name:     "Missing morning section",
			snapshot: clearSnapshot(),
			response: `{
				"summary": {"conditions": "Mild"},
				"morning": [],
				"afternoon": [{"name": "River cruise", "description": "Skyline views.", "location": "Asakusa"}],
				"indoor": [],
				"warnings": []
			}`,
			expectedErr: types.ErrPlanFormat,
		},
		{
			name:     "Item without description",
			snapshot: clearSnapshot(),
			response: `{
				"summary": {"conditions": "Mild"},
				"morning": [{"name": "Park walk"}],
				"afternoon": [{"name": "River cruise", "description": "Skyline views.", "location": "Asakusa"}],
				"indoor": [],
				"warnings": []
			}`,
			expectedErr: types.ErrPlanFormat,
		},
		{
			name:     "Thunderstorm without indoor alternatives",
			snapshot: stormSnapshot(),
			response: `{
				"summary": {"conditions": "Stormy"},
				"morning": [{"name": "Museum", "description": "Covered venue.", "location": "Ueno"}],
				"afternoon": [{"name": "Aquarium", "description": "Covered venue.", "location": "Shinagawa"}],
				"indoor": [],
				"warnings": []
			}`,
			expectedErr: types.ErrPlanFormat,
		},
		{
			name:     "Thunderstorm plan gets mandatory warnings and indoor list",
			snapshot: stormSnapshot(),
			response: `{
				"summary": {"conditions": "Thunderstorms through the day"},
				"morning": [{"name": "Covered market tour", "description": "Browse the stalls under cover.", "location": "Tsukiji"}],
				"afternoon": [{"name": "Gallery crawl", "description": "Hop between nearby galleries.", "location": "Roppongi"}],
				"indoor": [{"name": "Science museum", "description": "Hands-on exhibits.", "location": "Odaiba"}],
				"warnings": []
			}`,
			check: func(t *testing.T, plan *types.ActivityPlan) {
				assert.NotEmpty(t, plan.Indoor)
				assert.NotEmpty(t, plan.Warnings, "storm and gusts must populate warnings")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockGen := new(MockGenerator)
			mockGen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(tc.response, nil)

			service := NewPlannerService(mockGen, 15.0, 0.5, logger)
			plan, err := service.Synthesize(ctx, tc.snapshot, nil)

			if tc.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, plan)
			} else {
				require.NoError(t, err)
				require.NotNil(t, plan)
				tc.check(t, plan)
			}

			mockGen.AssertExpectations(t)
		})
	}
}

func TestSynthesizeGeneratorFailure(t *testing.T) {
	mockGen := new(MockGenerator)
	mockGen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("", assert.AnError)

	service := NewPlannerService(mockGen, 15.0, 0.5, slog.Default())
	plan, err := service.Synthesize(context.Background(), clearSnapshot(), nil)

	assert.ErrorIs(t, err, types.ErrUpstreamService)
	assert.Nil(t, plan)
	mockGen.AssertExpectations(t)
}

func TestSynthesizeWindGustWarning(t *testing.T) {
	snapshot := clearSnapshot()
	snapshot.WindGust = 18.0 // above the 15 m/s default threshold

	mockGen := new(MockGenerator)
	mockGen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(validPlanJSON, nil)

	service := NewPlannerService(mockGen, 15.0, 0.5, slog.Default())
	plan, err := service.Synthesize(context.Background(), snapshot, nil)

	require.NoError(t, err)
	require.NotEmpty(t, plan.Warnings)
	assert.Contains(t, plan.Warnings[0], "wind gusts")
}

func TestSynthesizeFillsSummaryRanges(t *testing.T) {
	response := `{
		"summary": {"conditions": "Mild"},
		"morning": [{"name": "Park walk", "description": "Easy stroll.", "location": "Ueno"}],
		"afternoon": [{"name": "River cruise", "description": "Skyline views.", "location": "Asakusa"}],
		"indoor": [],
		"warnings": []
	}`

	mockGen := new(MockGenerator)
	mockGen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(response, nil)

	snapshot := clearSnapshot()
	snapshot.Temperature = 20.0

	service := NewPlannerService(mockGen, 15.0, 0.5, slog.Default())
	plan, err := service.Synthesize(context.Background(), snapshot, nil)

	require.NoError(t, err)
	assert.Equal(t, "20°C", plan.Summary.TempRangeC)
	assert.Equal(t, "68°F", plan.Summary.TempRangeF)
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain object", `{"a":1}`, `{"a":1}`},
		{"Fenced json", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"Fenced bare", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"Surrounding prose", "Here is your plan:\n{\"a\":1}\nEnjoy!", `{"a":1}`},
		{"No JSON", "no braces here", "no braces here"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, cleanJSONResponse(tc.input))
		})
	}
}
