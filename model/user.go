package model

// User is the immutable profile snapshot fetched once per analysis
type User struct {
	Login       string  `json:"login"`
	Name        string  `json:"name"`
	AvatarURL   string  `json:"avatarUrl"`
	ProfileURL  string  `json:"profileUrl"`
	Followers   int     `json:"followers"`
	PublicRepos int     `json:"publicRepos"`
	Bio         *string `json:"bio,omitempty"`      // can be empty for some profiles
	Company     *string `json:"company,omitempty"`  // can be empty for some profiles
	Location    *string `json:"location,omitempty"` // can be empty for some profiles
}
