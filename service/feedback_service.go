package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bhanuprakash1708/GitHub-HireScore/cache"
	"github.com/bhanuprakash1708/GitHub-HireScore/config"
	"github.com/bhanuprakash1708/GitHub-HireScore/model"

	log "github.com/sirupsen/logrus"

	"golang.org/x/sync/singleflight"
)

// up to this many repositories are described in the prompt, by star count
const promptRepositoryLimit = 5

// TextGenerator is the only surface needed from the generative model client
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type FeedbackService interface {
	GenerateFeedback(ctx context.Context, metrics model.PortfolioMetrics, score model.PortfolioScore) model.Feedback
}

type feedbackService struct {
	generator TextGenerator
	cache     *cache.TTLCache[model.Feedback]
	group     *singleflight.Group
}

// NewFeedbackService builds the feedback generator on top of a model client
// feedback is cached by score fingerprint and concurrent duplicates share one call
func NewFeedbackService(config config.Config, generator TextGenerator) (FeedbackService, error) {
	ttl := time.Duration(config.Gemini.CacheTTLMinutes) * time.Minute

	feedbackCache, err := cache.New[model.Feedback](config.Gemini.CacheSize, ttl)
	if err != nil {
		return nil, err
	}

	return feedbackService{
		generator: generator,
		cache:     feedbackCache,
		group:     &singleflight.Group{},
	}, nil
}

// GenerateFeedback narrates the score, it never fails outward
// any model or parsing failure resolves to the degraded payload instead
func (s feedbackService) GenerateFeedback(ctx context.Context, metrics model.PortfolioMetrics, score model.PortfolioScore) model.Feedback {
	key := feedbackCacheKey(metrics, score)

	if feedback, found := s.cache.Get(key); found {
		log.WithFields(log.Fields{
			"username": metrics.User.Login,
		}).Debug("feedback served from cache")

		return feedback
	}

	// concurrent analyses of the same profile attach to the same model call
	// the in flight entry is dropped automatically when the call settles
	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		prompt := buildFeedbackPrompt(metrics, score)

		text, generateErr := s.generator.Generate(ctx, prompt)

		if generateErr != nil {
			return nil, generateErr
		}

		feedback, parseErr := parseFeedbackPayload(text)

		if parseErr != nil {
			return nil, parseErr
		}

		s.cache.Set(key, feedback)
		return feedback, nil
	})

	if err != nil {
		log.WithFields(log.Fields{
			"username": metrics.User.Login,
		}).WithError(err).Warning("unable to generate feedback. serving the degraded payload")

		return degradedFeedback()
	}

	return result.(model.Feedback)
}

// feedbackCacheKey fingerprints everything that shapes the prompt
// scoring is deterministic, so identical portfolios always land on the same entry
func feedbackCacheKey(metrics model.PortfolioMetrics, score model.PortfolioScore) string {
	return fmt.Sprintf("%s|%d|%.1f|%.1f|%.1f|%.1f|%.1f|%.1f|%d",
		metrics.User.Login,
		score.Total,
		score.Breakdown.Documentation,
		score.Breakdown.CodeStructure,
		score.Breakdown.Activity,
		score.Breakdown.TechnicalDepth,
		score.Breakdown.Impact,
		score.Breakdown.Organization,
		len(metrics.Repositories),
	)
}

func buildFeedbackPrompt(metrics model.PortfolioMetrics, score model.PortfolioScore) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are reviewing the public GitHub portfolio of %q for a technical recruiter.\n", metrics.User.Login)
	fmt.Fprintf(&b, "It scored %d/100: documentation %.1f/20, code structure %.1f/20, activity %.1f/20, technical depth %.1f/15, impact %.1f/15, organization %.1f/10.\n",
		score.Total,
		score.Breakdown.Documentation,
		score.Breakdown.CodeStructure,
		score.Breakdown.Activity,
		score.Breakdown.TechnicalDepth,
		score.Breakdown.Impact,
		score.Breakdown.Organization,
	)
	fmt.Fprintf(&b, "The profile counts %d public repositories and %d commits over the last 90 days.\n",
		len(metrics.Repositories), metrics.TotalRecentCommits)

	b.WriteString("Most starred repositories:\n")

	for _, r := range topRepositoriesByStars(metrics.Repositories, promptRepositoryLimit) {
		description := "no description"
		if r.Repository.Description != nil {
			description = *r.Repository.Description
		}

		language := "unknown"
		if r.Repository.Language != nil {
			language = *r.Repository.Language
		}

		lastCommit := "unknown"
		if r.LastCommitDate != nil {
			lastCommit = r.LastCommitDate.Format("2006-01-02")
		}

		fmt.Fprintf(&b, "- %s: %s | stars %d, forks %d, language %s, readme %t with %d sections, commits last 90 days %d, last commit %s\n",
			r.Repository.Name,
			description,
			r.Repository.Stars,
			r.Repository.Forks,
			language,
			r.HasReadme,
			countSections(r),
			r.RecentCommits,
			lastCommit,
		)
	}

	b.WriteString("Reply with a single JSON object shaped as ")
	b.WriteString(`{"summary": string, "strengths": [string], "redFlags": [string], "actionItems": [string]}. `)
	b.WriteString("Keep every entry short, concrete and written for the portfolio owner.")

	return b.String()
}

// topRepositoriesByStars returns the limit most starred repositories
// the input order is kept for equal star counts so prompts stay deterministic
func topRepositoriesByStars(repos []model.RepositoryAnalysis, limit int) []model.RepositoryAnalysis {
	sorted := make([]model.RepositoryAnalysis, len(repos))
	copy(sorted, repos)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Repository.Stars > sorted[j].Repository.Stars
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	return sorted
}

// parseFeedbackPayload decodes the model reply without trusting its shape
// a missing or wrong typed field falls back to empty instead of failing
func parseFeedbackPayload(text string) (model.Feedback, error) {
	cleaned := stripCodeFences(text)

	var payload map[string]interface{}

	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return model.Feedback{}, fmt.Errorf("%w: %v", model.ErrModelResponseParse, err)
	}

	feedback := model.Feedback{
		Strengths:   stringList(payload["strengths"]),
		RedFlags:    stringList(payload["redFlags"]),
		ActionItems: stringList(payload["actionItems"]),
	}

	if summary, ok := payload["summary"].(string); ok {
		feedback.Summary = summary
	}

	return feedback, nil
}

func stringList(value interface{}) []string {
	list := []string{}

	items, ok := value.([]interface{})
	if !ok {
		return list
	}

	for _, item := range items {
		if entry, ok := item.(string); ok {
			list = append(list, entry)
		}
	}

	return list
}

// stripCodeFences removes a surrounding markdown fence
// models add one now and then even when asked for plain JSON
func stripCodeFences(input string) string {
	trimmed := strings.TrimSpace(input)

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimPrefix(trimmed, "json")
		trimmed = strings.TrimSpace(trimmed)

		if idx := strings.LastIndex(trimmed, "```"); idx != -1 {
			trimmed = strings.TrimSpace(trimmed[:idx])
		}
	}

	return trimmed
}

// degradedFeedback is the fixed payload served when the model is unavailable
// the numeric score is already complete, only the narrative turns generic
func degradedFeedback() model.Feedback {
	return model.Feedback{
		Summary:     "We could not generate a detailed review this time. The numeric score still reflects the current state of the portfolio.",
		Strengths:   []string{},
		RedFlags:    []string{},
		ActionItems: []string{},
	}
}
