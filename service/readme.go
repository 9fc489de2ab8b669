package service

import (
	"regexp"
	"strings"

	"github.com/bhanuprakash1708/GitHub-HireScore/model"
)

// markdown badge pattern: a linked image such as [![CI](badge.svg)](https://ci.example.com)
// plain images are not counted because almost every badge row wraps the image in a link
var badgePattern = regexp.MustCompile(`\[!\[[^\]]*\]\([^)]*\)\]`)

// newRepositoryAnalysis seeds the analysis entry for a repository
// the README and commit signals are merged in afterwards by the fan-out
// so a degraded fetch still yields a complete entry with zero values
func newRepositoryAnalysis(repo model.Repository) model.RepositoryAnalysis {
	analysis := model.RepositoryAnalysis{
		Repository: repo,
		Languages:  []string{},
	}

	if repo.Language != nil {
		analysis.Languages = []string{*repo.Language}
	}

	return analysis
}

// applyReadmeSignals fills the documentation fields of the analysis from the decoded README
// detection uses plain substring checks instead of markdown heading parsing
// because a lot of READMEs use bold text or emoji headers instead of # sections
func applyReadmeSignals(analysis *model.RepositoryAnalysis, content string) {
	analysis.HasReadme = true
	analysis.ReadmeLength = len(content)

	lowered := strings.ToLower(content)

	analysis.HasInstallation = strings.Contains(lowered, "installation")
	analysis.HasUsage = strings.Contains(lowered, "usage")
	analysis.HasFeatures = strings.Contains(lowered, "features") || strings.Contains(lowered, "highlights")
	analysis.HasScreenshots = strings.Contains(lowered, "screenshot")
	analysis.HasBadges = badgePattern.MatchString(content)
}
