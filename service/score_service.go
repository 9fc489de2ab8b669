package service

import (
	"math"
	"strings"
	"time"

	"github.com/bhanuprakash1708/GitHub-HireScore/model"
)

// per factor maxima, the six together add up to 100
const (
	maxDocumentationScore  = 20.0
	maxCodeStructureScore  = 20.0
	maxActivityScore       = 20.0
	maxTechnicalDepthScore = 15.0
	maxImpactScore         = 15.0
	maxOrganizationScore   = 10.0
)

const (
	// a README is worth at most 23 raw points, see scoreDocumentation
	maxReadmePoints = 23.0

	// a considered repository is worth at most 8 raw points, see scoreCodeStructure
	maxStructurePoints = 8.0

	// repositories below this size carry no structure signal
	consideredSizeKB = 50

	// threshold marking a substantial codebase
	largeProjectKB = 1000
)

// descriptions mentioning one of these count as framework experience
var frameworkKeywords = []string{
	"react", "vue", "angular", "svelte", "next.js", "nuxt",
	"django", "flask", "fastapi", "spring", "rails", "laravel",
	"express", "gin", "flutter",
}

// descriptions mentioning one of these count as advanced stack experience
var advancedStackKeywords = []string{
	"machine learning", "deep learning", "neural", "llm", "computer vision",
	"kubernetes", "docker", "terraform", "microservice", "distributed",
	"kafka", "grpc", "aws", "azure", "blockchain",
}

type ScoreService interface {
	Score(metrics model.PortfolioMetrics) model.PortfolioScore
}

type scoreService struct {
	now func() time.Time // replaceable in tests, drives the recent activity check
}

// NewScoreService builds the scoring engine
// scoring is pure arithmetic on the metrics snapshot, no I/O happens here
func NewScoreService() ScoreService {
	return scoreService{now: time.Now}
}

func (s scoreService) Score(metrics model.PortfolioMetrics) model.PortfolioScore {
	// a profile without any public repository scores zero across the board
	if len(metrics.Repositories) == 0 {
		return model.PortfolioScore{Band: model.BandBeginner}
	}

	breakdown := model.ScoreBreakdown{
		Documentation:  s.scoreDocumentation(metrics.Repositories),
		CodeStructure:  s.scoreCodeStructure(metrics.Repositories),
		Activity:       s.scoreActivity(metrics),
		TechnicalDepth: s.scoreTechnicalDepth(metrics.Repositories),
		Impact:         s.scoreImpact(metrics.Repositories),
		Organization:   s.scoreOrganization(metrics),
	}

	sum := breakdown.Documentation + breakdown.CodeStructure + breakdown.Activity +
		breakdown.TechnicalDepth + breakdown.Impact + breakdown.Organization

	total := int(math.Round(sum))

	if total < 0 {
		total = 0
	}

	if total > 100 {
		total = 100
	}

	return model.PortfolioScore{
		Total:     total,
		Breakdown: breakdown,
		Band:      bandForTotal(total),
	}
}

// scoreDocumentation rates the READMEs, each one is worth up to 23 raw points
// 10 for existing, 5 for a decent length, 1.5 per detected section and 2 for badges
// the raw sum is normalized over the whole repository list, undocumented repos drag it down
func (s scoreService) scoreDocumentation(repos []model.RepositoryAnalysis) float64 {
	points := 0.0

	for _, r := range repos {
		if !r.HasReadme {
			continue
		}

		points += 10

		if r.ReadmeLength > 300 {
			points += 5
		}

		points += 1.5 * float64(countSections(r))

		if r.HasBadges {
			points += 2
		}
	}

	return points / (float64(len(repos)) * maxReadmePoints) * maxDocumentationScore
}

func countSections(r model.RepositoryAnalysis) int {
	sections := 0

	if r.HasInstallation {
		sections++
	}

	if r.HasUsage {
		sections++
	}

	if r.HasFeatures {
		sections++
	}

	if r.HasScreenshots {
		sections++
	}

	return sections
}

// scoreCodeStructure rates the substance of the repositories carrying real code
// only live repositories of at least 50KB are considered, a profile made of
// forks and empty shells gets nothing here
func (s scoreService) scoreCodeStructure(repos []model.RepositoryAnalysis) float64 {
	considered := 0
	points := 0.0

	for _, r := range repos {
		repo := r.Repository

		if repo.SizeKB < consideredSizeKB || repo.Archived || repo.Disabled {
			continue
		}

		considered++

		name := strings.ToLower(repo.Name)

		if !strings.HasPrefix(name, "test-") && !strings.HasPrefix(name, "playground") {
			points += 3
		}

		description := ""
		if repo.Description != nil {
			description = *repo.Description
		}

		if len(description) > 40 {
			points += 2
		}

		if containsAnyKeyword(description, frameworkKeywords) {
			points += 3
		}
	}

	if considered == 0 {
		return 0
	}

	return points / (float64(considered) * maxStructurePoints) * maxCodeStructureScore
}

// scoreActivity buckets the commit volume of the last ninety days
func (s scoreService) scoreActivity(metrics model.PortfolioMetrics) float64 {
	points := activityBucket(metrics.TotalRecentCommits)

	// reward profiles pushing on several repositories, not a single one
	activeRepos := 0
	cutoff := s.now().AddDate(0, 0, -recentActivityDays)

	for _, r := range metrics.Repositories {
		if r.LastCommitDate != nil && r.LastCommitDate.After(cutoff) {
			activeRepos++
		}
	}

	if activeRepos >= 3 {
		points += 2
	}

	if points > maxActivityScore {
		points = maxActivityScore
	}

	return points
}

func activityBucket(totalCommits int) float64 {
	switch {
	case totalCommits == 0:
		return 0
	case totalCommits < 20:
		return 6
	case totalCommits < 60:
		return 10
	case totalCommits < 150:
		return 15
	default:
		return 18
	}
}

// scoreTechnicalDepth rewards diversity, scale and an advanced stack
// each dimension pays 3 points at the first hit and 2 more at the third
func (s scoreService) scoreTechnicalDepth(repos []model.RepositoryAnalysis) float64 {
	languages := make(map[string]bool)
	largeProjects := 0
	advancedStack := 0

	for _, r := range repos {
		repo := r.Repository

		if !repo.Archived && !repo.Disabled && repo.Language != nil {
			languages[*repo.Language] = true
		}

		if repo.SizeKB > largeProjectKB {
			largeProjects++
		}

		if repo.Description != nil && containsAnyKeyword(*repo.Description, advancedStackKeywords) {
			advancedStack++
		}
	}

	points := thresholdPoints(len(languages)) + thresholdPoints(largeProjects) + thresholdPoints(advancedStack)

	if points > maxTechnicalDepthScore {
		points = maxTechnicalDepthScore
	}

	return points
}

// thresholdPoints converts a dimension count into its fixed increments
func thresholdPoints(count int) float64 {
	points := 0.0

	if count >= 1 {
		points += 3
	}

	if count >= 3 {
		points += 2
	}

	return points
}

// scoreImpact rates community traction through stars and forks
func (s scoreService) scoreImpact(repos []model.RepositoryAnalysis) float64 {
	stars, forks, openIssues := 0, 0, 0

	for _, r := range repos {
		stars += r.Repository.Stars
		forks += r.Repository.Forks
		openIssues += r.Repository.OpenIssues
	}

	points := 0.0

	if stars > 0 {
		points += 3
	}

	if stars > 10 {
		points += 3
	}

	if stars > 50 {
		points += 3
	}

	if forks > 0 {
		points += 3
	}

	if forks > 10 {
		points += 3
	}

	// a wall of never triaged issues is a bad signal
	if openIssues > 20 {
		points -= 2
	}

	if points < 0 {
		points = 0
	}

	if points > maxImpactScore {
		points = maxImpactScore
	}

	return points
}

// scoreOrganization rewards a curated profile
// pinned entries, complete repositories and archived leftovers all count
func (s scoreService) scoreOrganization(metrics model.PortfolioMetrics) float64 {
	points := 0.0

	if len(metrics.PinnedRepositories) >= 1 {
		points += 2
	}

	if len(metrics.PinnedRepositories) >= 3 {
		points += 2
	}

	complete := 0
	cleanedUp := 0

	for _, r := range metrics.Repositories {
		if r.HasReadme && !r.Repository.Archived && !r.Repository.Disabled {
			complete++
		}

		// small archived repositories show the profile is actively curated
		if r.Repository.Archived && r.Repository.SizeKB < consideredSizeKB {
			cleanedUp++
		}
	}

	if complete >= 3 {
		points += 2
	}

	if complete >= 5 {
		points += 2
	}

	if cleanedUp >= 3 {
		points += 2
	}

	if points > maxOrganizationScore {
		points = maxOrganizationScore
	}

	return points
}

// bandForTotal maps the rounded total to its qualitative label
func bandForTotal(total int) model.Band {
	switch {
	case total >= 85:
		return model.BandExcellent
	case total >= 70:
		return model.BandStrong
	case total >= 50:
		return model.BandIntermediate
	default:
		return model.BandBeginner
	}
}

func containsAnyKeyword(text string, keywords []string) bool {
	lowered := strings.ToLower(text)

	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}

	return false
}
