package service

import (
	"context"
	"testing"

	"github.com/bhanuprakash1708/GitHub-HireScore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGithubService overrides the portfolio collection only, the embedded
// interface keeps the stub small and panics on anything unexpected
type stubGithubService struct {
	GithubService
	metrics model.PortfolioMetrics
	err     error
}

func (s stubGithubService) FetchPortfolio(_ context.Context, _ string) (model.PortfolioMetrics, error) {
	return s.metrics, s.err
}

type recordingScoreService struct {
	received []model.PortfolioMetrics
	result   model.PortfolioScore
}

func (s *recordingScoreService) Score(metrics model.PortfolioMetrics) model.PortfolioScore {
	s.received = append(s.received, metrics)
	return s.result
}

type recordingFeedbackService struct {
	receivedScores []model.PortfolioScore
	result         model.Feedback
}

func (s *recordingFeedbackService) GenerateFeedback(_ context.Context, _ model.PortfolioMetrics, score model.PortfolioScore) model.Feedback {
	s.receivedScores = append(s.receivedScores, score)
	return s.result
}

// TestAnalyzeProfile will test that the three stages are chained in order
func TestAnalyzeProfile(t *testing.T) {
	metrics := model.PortfolioMetrics{
		User:               model.User{Login: "octocat"},
		TotalRecentCommits: 42,
	}
	score := model.PortfolioScore{Total: 70, Band: model.BandStrong}
	feedback := model.Feedback{Summary: "solid work"}

	scorer := &recordingScoreService{result: score}
	generator := &recordingFeedbackService{result: feedback}

	svc := NewPortfolioService(stubGithubService{metrics: metrics}, scorer, generator)

	analysis, err := svc.AnalyzeProfile(context.Background(), "octocat")

	require.NoError(t, err)
	assert.Equal(t, model.PortfolioAnalysis{
		Metrics:  metrics,
		Score:    score,
		Feedback: feedback,
	}, analysis)

	require.Len(t, scorer.received, 1)
	assert.Equal(t, metrics, scorer.received[0])

	require.Len(t, generator.receivedScores, 1)
	assert.Equal(t, score, generator.receivedScores[0])
}

// TestAnalyzeProfileCollectionError will test that a failed collection stops the chain
func TestAnalyzeProfileCollectionError(t *testing.T) {
	scorer := &recordingScoreService{}
	generator := &recordingFeedbackService{}

	svc := NewPortfolioService(stubGithubService{err: model.ErrUserNotFound}, scorer, generator)

	analysis, err := svc.AnalyzeProfile(context.Background(), "nobody")

	assert.ErrorIs(t, err, model.ErrUserNotFound)
	assert.Equal(t, model.PortfolioAnalysis{}, analysis)
	assert.Empty(t, scorer.received, "the scorer must not run without metrics")
	assert.Empty(t, generator.receivedScores, "the feedback stage must not run without metrics")
}
