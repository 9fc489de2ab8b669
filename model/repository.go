package model

import "time"

// Repository is a single public repository owned by the analyzed user
type Repository struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	FullName      string    `json:"fullName"`
	URL           string    `json:"url"`
	Description   *string   `json:"description,omitempty"` // description can be empty for some repositories
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	OpenIssues    int       `json:"openIssues"`
	Language      *string   `json:"language,omitempty"` // primary language, empty for repositories without code
	Archived      bool      `json:"archived"`
	Disabled      bool      `json:"disabled"`
	SizeKB        int       `json:"sizeKb"` // reported by github in kilobytes, used as a code volume proxy
	DefaultBranch string    `json:"defaultBranch"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PinnedRepository is the lightweight projection returned by the pinned items query
// fetched best-effort on a separate channel, so it may not match the full repository list
type PinnedRepository struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Stars       int     `json:"stars"`
	Forks       int     `json:"forks"`
	Language    *string `json:"language,omitempty"`
	URL         string  `json:"url"`
}
