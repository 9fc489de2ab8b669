package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bhanuprakash1708/GitHub-HireScore/config"
	"github.com/bhanuprakash1708/GitHub-HireScore/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPortfolioService struct {
	analysis model.PortfolioAnalysis
	err      error
}

func (s stubPortfolioService) AnalyzeProfile(_ context.Context, _ string) (model.PortfolioAnalysis, error) {
	return s.analysis, s.err
}

func newTestRouter(service stubPortfolioService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	controller := NewApiController(*config.GetDefault(), service)

	router := gin.New()
	router.GET("/users/:username/analysis", controller.AnalyzeProfile)
	router.GET("/health", controller.Health)

	return router
}

// TestAnalyzeProfileEndpoint will test the analysis route on success and on failure
func TestAnalyzeProfileEndpoint(t *testing.T) {
	analysis := model.PortfolioAnalysis{
		Metrics: model.PortfolioMetrics{
			User: model.User{Login: "octocat"},
		},
		Score: model.PortfolioScore{
			Total: 70,
			Band:  model.BandStrong,
		},
		Feedback: model.Feedback{
			Summary:     "solid work",
			Strengths:   []string{},
			RedFlags:    []string{},
			ActionItems: []string{},
		},
	}

	tests := []struct {
		name           string
		service        stubPortfolioService
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Analysis found",
			service:        stubPortfolioService{analysis: analysis},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "User not found",
			service:        stubPortfolioService{err: model.ErrUserNotFound},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "USER_NOT_FOUND",
		},
		{
			name:           "Rate limit reached",
			service:        stubPortfolioService{err: model.ErrRateLimited},
			expectedStatus: http.StatusTooManyRequests,
			expectedCode:   "RATE_LIMIT_REACHED",
		},
		{
			name:           "Github unavailable",
			service:        stubPortfolioService{err: model.ErrUpstream},
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "UPSTREAM_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(tt.service)

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/users/octocat/analysis", nil)

			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.expectedStatus, recorder.Code)

			if tt.expectedCode != "" {
				var apiError model.APIError
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &apiError))
				assert.Equal(t, tt.expectedCode, apiError.Code)
				assert.NotEmpty(t, apiError.Message)
				return
			}

			var decoded model.PortfolioAnalysis
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
			assert.Equal(t, analysis, decoded)
		})
	}
}

// TestHealthEndpoint will test the probe route
func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(stubPortfolioService{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/health", nil)

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}
