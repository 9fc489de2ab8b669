package service

import (
	"testing"

	"github.com/bhanuprakash1708/GitHub-HireScore/model"
	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
)

// TestApplyReadmeSignals will test the README heuristics on realistic contents
func TestApplyReadmeSignals(t *testing.T) {
	tests := []struct {
		name            string
		content         string
		hasInstallation bool
		hasUsage        bool
		hasFeatures     bool
		hasScreenshots  bool
		hasBadges       bool
	}{
		{
			name: "Full featured README",
			content: "[![Build](https://img.shields.io/badge/build-passing-green)](https://ci.example.com)\n" +
				"# My Project\n\n## Features\n- fast\n\n## Installation\nnpm install\n\n## Usage\nrun it\n\n## Screenshots\n",
			hasInstallation: true,
			hasUsage:        true,
			hasFeatures:     true,
			hasScreenshots:  true,
			hasBadges:       true,
		},
		{
			name:    "Minimal README",
			content: "just a repo",
		},
		{
			name:            "Sections detected without markdown headings",
			content:         "**INSTALLATION** is simple, see the Usage examples and the Highlights below",
			hasInstallation: true,
			hasUsage:        true,
			hasFeatures:     true,
		},
		{
			name:           "Plain image is not a badge",
			content:        "![screenshot of the app](docs/app.png)",
			hasScreenshots: true,
		},
		{
			name:    "Empty README file",
			content: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := model.RepositoryAnalysis{}
			applyReadmeSignals(&analysis, tt.content)

			assert.True(t, analysis.HasReadme)
			assert.Equal(t, len(tt.content), analysis.ReadmeLength)
			assert.Equal(t, tt.hasInstallation, analysis.HasInstallation)
			assert.Equal(t, tt.hasUsage, analysis.HasUsage)
			assert.Equal(t, tt.hasFeatures, analysis.HasFeatures)
			assert.Equal(t, tt.hasScreenshots, analysis.HasScreenshots)
			assert.Equal(t, tt.hasBadges, analysis.HasBadges)
		})
	}
}

// TestNewRepositoryAnalysis will test the seed entry built before the fan-out
func TestNewRepositoryAnalysis(t *testing.T) {
	tests := []struct {
		name              string
		repo              model.Repository
		expectedLanguages []string
	}{
		{
			name:              "Repository with a primary language",
			repo:              model.Repository{ID: 1, Name: "api", Language: github.String("Go")},
			expectedLanguages: []string{"Go"},
		},
		{
			name:              "Repository without code",
			repo:              model.Repository{ID: 2, Name: "notes"},
			expectedLanguages: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := newRepositoryAnalysis(tt.repo)

			assert.Equal(t, tt.repo, analysis.Repository)
			assert.Equal(t, tt.expectedLanguages, analysis.Languages)
			assert.False(t, analysis.HasReadme)
			assert.Zero(t, analysis.RecentCommits)
		})
	}
}
