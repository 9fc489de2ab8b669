package service

import (
	"context"

	"github.com/bhanuprakash1708/GitHub-HireScore/model"
)

// PortfolioService chains the collectors, the scorer and the feedback
// generator into the single analysis the API exposes
type PortfolioService interface {
	AnalyzeProfile(ctx context.Context, username string) (model.PortfolioAnalysis, error)
}

type portfolioService struct {
	github   GithubService
	score    ScoreService
	feedback FeedbackService
}

// NewPortfolioService creates a new portfolio service from the three stages
func NewPortfolioService(github GithubService, score ScoreService, feedback FeedbackService) PortfolioService {
	return portfolioService{
		github:   github,
		score:    score,
		feedback: feedback,
	}
}

// AnalyzeProfile collects the metrics for a username, scores them and asks
// the model for a narrative review. Collection errors stop the analysis,
// the scorer and the feedback stage never fail on their own
func (s portfolioService) AnalyzeProfile(ctx context.Context, username string) (model.PortfolioAnalysis, error) {
	metrics, err := s.github.FetchPortfolio(ctx, username)
	if err != nil {
		return model.PortfolioAnalysis{}, err
	}

	score := s.score.Score(metrics)
	feedback := s.feedback.GenerateFeedback(ctx, metrics, score)

	return model.PortfolioAnalysis{
		Metrics:  metrics,
		Score:    score,
		Feedback: feedback,
	}, nil
}
