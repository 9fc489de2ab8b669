package model

import "time"

// RepositoryAnalysis is a repository enriched with README heuristics and recent activity
// computed once per analysis run and never mutated afterward
type RepositoryAnalysis struct {
	Repository Repository `json:"repository"`

	HasReadme       bool `json:"hasReadme"`
	ReadmeLength    int  `json:"readmeLength"`
	HasInstallation bool `json:"hasInstallation"`
	HasUsage        bool `json:"hasUsage"`
	HasFeatures     bool `json:"hasFeatures"`
	HasScreenshots  bool `json:"hasScreenshots"`
	HasBadges       bool `json:"hasBadges"`

	RecentCommits  int        `json:"recentCommits"` // commits on the default branch over the last 90 days
	LastCommitDate *time.Time `json:"lastCommitDate,omitempty"`
	Languages      []string   `json:"languages"`
}

// RepositoryReadme is sent back on a channel by the README fan-out for one repository
type RepositoryReadme struct {
	RepositoryID int64
	Found        bool
	Content      string
}

// RepositoryCommits is sent back on a channel by the commit fan-out for one repository
type RepositoryCommits struct {
	RepositoryID   int64
	RecentCommits  int
	LastCommitDate *time.Time
}

// PortfolioMetrics is the aggregate snapshot of a profile, the sole input to scoring
type PortfolioMetrics struct {
	User               User                 `json:"user"`
	Repositories       []RepositoryAnalysis `json:"repositories"` // source listing order, not significant
	PinnedRepositories []PinnedRepository   `json:"pinnedRepositories"`
	TotalRecentCommits int                  `json:"totalRecentCommits"`

	// ActiveMonths counts repositories with at least one recent commit,
	// not distinct calendar months. Coarse, but kept as the scoring input.
	ActiveMonths int `json:"activeMonths"`
}
