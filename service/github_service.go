package service

import (
	"context"
	"net/http"
	"time"

	"github.com/bhanuprakash1708/GitHub-HireScore/cache"
	"github.com/bhanuprakash1708/GitHub-HireScore/config"
	"github.com/bhanuprakash1708/GitHub-HireScore/model"
	"github.com/google/go-github/v66/github"
	"github.com/shurcooL/githubv4"

	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// github lists at most 100 elements per page
	resultsPerPage = 100

	// two pages at most, the secondary fan-out costs two requests per
	// repository and would explode the rate budget on huge profiles
	maxRepositoryPages = 2

	// window used for the commit activity signals
	recentActivityDays = 90
)

type GithubService interface {
	FetchPortfolio(ctx context.Context, username string) (model.PortfolioMetrics, error)
	FetchUser(ctx context.Context, username string) (model.User, error)
	FetchRepositories(ctx context.Context, username string) ([]model.Repository, error)
	FetchPinnedRepositories(ctx context.Context, username string) ([]model.PinnedRepository, error)
	EnrichRepositories(ctx context.Context, username string, repos []model.Repository) []model.RepositoryAnalysis
	FetchReadmeForSingleRepository(ctx context.Context, username string, repo model.Repository, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- model.RepositoryReadme) error
	FetchCommitsForSingleRepository(ctx context.Context, username string, repo model.Repository, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- model.RepositoryCommits) error

	HandleRequestErrors(err error) error
}

type githubService struct {
	githubClient      *github.Client
	graphqlClient     *githubv4.Client
	githubRateLimiter *rate.Limiter
	config            config.Config

	userCache   *cache.TTLCache[model.User]
	repoCache   *cache.TTLCache[[]model.Repository]
	pinnedCache *cache.TTLCache[[]model.PinnedRepository]
}

// pinnedItemsQuery loads the profile pinned repositories through GraphQL
// the REST API has no endpoint exposing them
type pinnedItemsQuery struct {
	User struct {
		PinnedItems struct {
			Nodes []struct {
				Repository struct {
					Name            string
					Description     string
					Url             string
					StargazerCount  int
					ForkCount       int
					PrimaryLanguage struct {
						Name string
					}
				} `graphql:"... on Repository"`
			}
		} `graphql:"pinnedItems(first: 6, types: REPOSITORY)"`
	} `graphql:"user(login: $login)"`
}

// we have one shared REST budget of 5000 requests per hour with a token
// a cold analysis costs 2 primary requests plus 2 per repository
// so the limiter is seeded from the real remaining budget in main
// and consumed here before every REST call (graphql has its own budget)
func NewGithubService(config config.Config, githubClient *github.Client, graphqlClient *githubv4.Client, rateLimiter *rate.Limiter) (GithubService, error) {
	ttl := time.Duration(config.Github.CacheTTLMinutes) * time.Minute

	userCache, err := cache.New[model.User](config.Github.CacheSize, ttl)
	if err != nil {
		return nil, err
	}

	repoCache, err := cache.New[[]model.Repository](config.Github.CacheSize, ttl)
	if err != nil {
		return nil, err
	}

	pinnedCache, err := cache.New[[]model.PinnedRepository](config.Github.CacheSize, ttl)
	if err != nil {
		return nil, err
	}

	return githubService{
		githubClient:      githubClient,
		graphqlClient:     graphqlClient,
		githubRateLimiter: rateLimiter,
		config:            config,
		userCache:         userCache,
		repoCache:         repoCache,
		pinnedCache:       pinnedCache,
	}, nil
}

// FetchPortfolio aggregates everything the scoring needs for one profile
// the three primary fetches are independent so they run in parallel
// a user or repository listing failure aborts the whole aggregation
func (s githubService) FetchPortfolio(ctx context.Context, username string) (model.PortfolioMetrics, error) {
	log.WithFields(log.Fields{
		"username": username,
	}).Info("aggregate github portfolio")

	var user model.User
	var repositories []model.Repository
	var pinned []model.PinnedRepository

	g, groupCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		user, err = s.FetchUser(groupCtx, username)
		return err
	})

	g.Go(func() error {
		var err error
		repositories, err = s.FetchRepositories(groupCtx, username)
		return err
	})

	g.Go(func() error {
		var err error
		pinned, err = s.FetchPinnedRepositories(groupCtx, username)

		// pinned repositories are a nice to have, never fail the aggregation for them
		if err != nil {
			log.WithError(err).Warning("unable to load pinned repositories. analysis continues without them")
			pinned = []model.PinnedRepository{}
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return model.PortfolioMetrics{}, err
	}

	metrics := model.PortfolioMetrics{
		User:               user,
		Repositories:       s.EnrichRepositories(ctx, username, repositories),
		PinnedRepositories: pinned,
	}

	for _, analysis := range metrics.Repositories {
		metrics.TotalRecentCommits += analysis.RecentCommits

		if analysis.RecentCommits > 0 {
			metrics.ActiveMonths++
		}
	}

	return metrics, nil
}

func (s githubService) FetchUser(ctx context.Context, username string) (model.User, error) {
	if user, found := s.userCache.Get(username); found {
		log.WithFields(log.Fields{
			"username": username,
		}).Debug("user profile served from cache")

		return user, nil
	}

	if !s.githubRateLimiter.Allow() {
		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return model.User{}, model.ErrRateLimited
	}

	log.WithFields(log.Fields{
		"username": username,
	}).Info("fetch user profile from github")

	user, _, err := s.githubClient.Users.Get(ctx, username)

	if err != nil {
		return model.User{}, s.HandleRequestErrors(err)
	}

	converted := model.User{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		AvatarURL:   user.GetAvatarURL(),
		ProfileURL:  user.GetHTMLURL(),
		Followers:   user.GetFollowers(),
		PublicRepos: user.GetPublicRepos(),
		Bio:         user.Bio,
		Company:     user.Company,
		Location:    user.Location,
	}

	s.userCache.Set(username, converted)
	return converted, nil
}

func (s githubService) FetchRepositories(ctx context.Context, username string) ([]model.Repository, error) {
	if repositories, found := s.repoCache.Get(username); found {
		log.WithFields(log.Fields{
			"username": username,
		}).Debug("repository list served from cache")

		return repositories, nil
	}

	log.WithFields(log.Fields{
		"username": username,
	}).Info("fetch public repositories from github")

	opts := &github.RepositoryListByUserOptions{
		Type: "owner",
		Sort: "updated",
		ListOptions: github.ListOptions{
			PerPage: resultsPerPage,
		},
	}

	repositories := make([]model.Repository, 0)

	for page := 0; page < maxRepositoryPages; page++ {
		if !s.githubRateLimiter.Allow() {
			log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
			return []model.Repository{}, model.ErrRateLimited
		}

		repos, resp, err := s.githubClient.Repositories.ListByUser(ctx, username, opts)

		if err != nil {
			return []model.Repository{}, s.HandleRequestErrors(err)
		}

		for _, r := range repos {
			repositories = append(repositories, convertRepository(r))
		}

		if resp.NextPage == 0 {
			break
		}

		opts.Page = resp.NextPage
	}

	s.repoCache.Set(username, repositories)
	return repositories, nil
}

func convertRepository(r *github.Repository) model.Repository {
	return model.Repository{
		ID:            r.GetID(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		URL:           r.GetHTMLURL(),
		Description:   r.Description,
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		OpenIssues:    r.GetOpenIssuesCount(),
		Language:      r.Language,
		Archived:      r.GetArchived(),
		Disabled:      r.GetDisabled(),
		SizeKB:        r.GetSize(),
		DefaultBranch: r.GetDefaultBranch(),
		CreatedAt:     r.GetCreatedAt().Time,
		UpdatedAt:     r.GetUpdatedAt().Time,
	}
}

func (s githubService) FetchPinnedRepositories(ctx context.Context, username string) ([]model.PinnedRepository, error) {
	if pinned, found := s.pinnedCache.Get(username); found {
		log.WithFields(log.Fields{
			"username": username,
		}).Debug("pinned repositories served from cache")

		return pinned, nil
	}

	if s.graphqlClient == nil {
		log.Debug("no graphql client configured. pinned repositories are skipped")
		return []model.PinnedRepository{}, nil
	}

	log.WithFields(log.Fields{
		"username": username,
	}).Info("fetch pinned repositories from github")

	var query pinnedItemsQuery

	variables := map[string]interface{}{
		"login": githubv4.String(username),
	}

	if err := s.graphqlClient.Query(ctx, &query, variables); err != nil {
		return []model.PinnedRepository{}, err
	}

	pinned := make([]model.PinnedRepository, 0, len(query.User.PinnedItems.Nodes))

	for _, node := range query.User.PinnedItems.Nodes {
		repo := node.Repository

		entry := model.PinnedRepository{
			Name:  repo.Name,
			Stars: repo.StargazerCount,
			Forks: repo.ForkCount,
			URL:   repo.Url,
		}

		// description and primary language come back empty for some repositories
		if repo.Description != "" {
			entry.Description = github.String(repo.Description)
		}

		if repo.PrimaryLanguage.Name != "" {
			entry.Language = github.String(repo.PrimaryLanguage.Name)
		}

		pinned = append(pinned, entry)
	}

	s.pinnedCache.Set(username, pinned)
	return pinned, nil
}

// EnrichRepositories loads the README and the recent commits for every repository
// using goroutines bounded by the configured parallelism
// a failed or refused enrichment degrades to zero signals, it never fails the analysis
func (s githubService) EnrichRepositories(ctx context.Context, username string, repos []model.Repository) []model.RepositoryAnalysis {
	analyses := make([]model.RepositoryAnalysis, 0, len(repos))

	for _, r := range repos {
		analyses = append(analyses, newRepositoryAnalysis(r))
	}

	if len(repos) == 0 {
		return analyses
	}

	// two requests per repository, README and recent commits
	// consume everything upfront so we never enrich only a part of the portfolio
	if !s.githubRateLimiter.AllowN(time.Now(), 2*len(repos)) {
		log.WithFields(log.Fields{
			"repositories": len(repos),
		}).Warning("not enough requests left in the rate limiter. repositories are kept without README and activity signals")

		return analyses
	}

	swg := sizedwaitgroup.New(s.config.Tasks.MaxParallelTasksAllowed)

	// one buffered channel per signal, merged by repository ID afterwards
	readmes := make(chan model.RepositoryReadme, len(repos))
	commits := make(chan model.RepositoryCommits, len(repos))

	for _, r := range repos {
		swg.Add()
		go s.FetchReadmeForSingleRepository(ctx, username, r, &swg, readmes)

		swg.Add()
		go s.FetchCommitsForSingleRepository(ctx, username, r, &swg, commits)
	}

	// wait for all tasks to be finished
	log.Debug("waiting for all threads enriching repositories to be finished")
	swg.Wait()
	log.Debug("all threads enriching repositories finished")

	close(readmes)
	close(commits)

	readmeByRepo := make(map[int64]model.RepositoryReadme)
	for result := range readmes {
		readmeByRepo[result.RepositoryID] = result
	}

	commitsByRepo := make(map[int64]model.RepositoryCommits)
	for result := range commits {
		commitsByRepo[result.RepositoryID] = result
	}

	for i := range analyses {
		if readme, found := readmeByRepo[analyses[i].Repository.ID]; found && readme.Found {
			applyReadmeSignals(&analyses[i], readme.Content)
		}

		if activity, found := commitsByRepo[analyses[i].Repository.ID]; found {
			analyses[i].RecentCommits = activity.RecentCommits
			analyses[i].LastCommitDate = activity.LastCommitDate
		}
	}

	return analyses
}

// FetchReadmeForSingleRepository gets the README of a specific repository
// It will add the result to a channel and is made to run as a goroutine
// note: the rate limit is not checked here, the parent consumed the budget upfront
func (s githubService) FetchReadmeForSingleRepository(ctx context.Context, username string, repo model.Repository, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- model.RepositoryReadme) error {
	defer swg.Done()

	log.WithFields(log.Fields{
		"repositoryID": repo.ID,
	}).Debug("fetch README for repository")

	readme, _, err := s.githubClient.Repositories.GetReadme(ctx, username, repo.Name, nil)

	if err != nil {
		// not every repository has a README, this is a normal outcome
		if respErr, ok := err.(*github.ErrorResponse); ok && respErr.Response.StatusCode == http.StatusNotFound {
			ch <- model.RepositoryReadme{RepositoryID: repo.ID}
			return nil
		}

		log.WithFields(log.Fields{
			"repositoryID": repo.ID,
		}).WithError(err).Debug("unable to load the README. repository kept without documentation signals")

		ch <- model.RepositoryReadme{RepositoryID: repo.ID}
		return s.HandleRequestErrors(err)
	}

	content, err := readme.GetContent()

	if err != nil {
		log.WithFields(log.Fields{
			"repositoryID": repo.ID,
		}).WithError(err).Debug("unable to decode the README content. repository kept without documentation signals")

		ch <- model.RepositoryReadme{RepositoryID: repo.ID}
		return model.ErrUpstream
	}

	ch <- model.RepositoryReadme{RepositoryID: repo.ID, Found: true, Content: content}
	return nil
}

// FetchCommitsForSingleRepository counts the default branch commits of the last ninety days
// It will add the result to a channel and is made to run as a goroutine
// note: the rate limit is not checked here, the parent consumed the budget upfront
func (s githubService) FetchCommitsForSingleRepository(ctx context.Context, username string, repo model.Repository, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- model.RepositoryCommits) error {
	defer swg.Done()

	since := time.Now().AddDate(0, 0, -recentActivityDays)

	log.WithFields(log.Fields{
		"repositoryID": repo.ID,
	}).Debug("fetch recent commits for repository")

	commits, _, err := s.githubClient.Repositories.ListCommits(
		ctx,
		username,
		repo.Name,
		&github.CommitsListOptions{
			SHA:   repo.DefaultBranch,
			Since: since,
			ListOptions: github.ListOptions{
				PerPage: resultsPerPage,
			},
		},
	)

	if err != nil {
		// a repository without any commit answers with a conflict
		// treat it like the not found case, zero activity is a normal outcome
		if respErr, ok := err.(*github.ErrorResponse); ok &&
			(respErr.Response.StatusCode == http.StatusNotFound || respErr.Response.StatusCode == http.StatusConflict) {
			ch <- model.RepositoryCommits{RepositoryID: repo.ID}
			return nil
		}

		log.WithFields(log.Fields{
			"repositoryID": repo.ID,
		}).WithError(err).Debug("unable to load recent commits. repository kept without activity signals")

		ch <- model.RepositoryCommits{RepositoryID: repo.ID}
		return s.HandleRequestErrors(err)
	}

	result := model.RepositoryCommits{RepositoryID: repo.ID, RecentCommits: len(commits)}

	// commits are returned newest first, so the first timestamp is the last push
	if len(commits) > 0 {
		if date := commits[0].GetCommit().GetCommitter().GetDate(); !date.IsZero() {
			result.LastCommitDate = &date.Time
		}
	}

	ch <- result
	return nil
}

// HandleRequestErrors manages errors including github rate limit errors at the same location
// If the error is a rate limit error, this function will drain the local rate limiter
// so the next callers fail fast without burning requests against the API
func (s githubService) HandleRequestErrors(err error) error {
	if _, ok := err.(*github.RateLimitError); ok {
		s.githubRateLimiter.AllowN(time.Now(), s.githubRateLimiter.Burst())

		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return model.ErrRateLimited
	}

	if abuseErr, ok := err.(*github.AbuseRateLimitError); ok {
		log.WithFields(log.Fields{
			"retryAfter": abuseErr.GetRetryAfter(),
		}).Warning("github flagged the traffic as abusive, backing off")

		return model.ErrRateLimited
	}

	if respErr, ok := err.(*github.ErrorResponse); ok {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return model.ErrUserNotFound
		case http.StatusForbidden:
			return model.ErrForbidden
		}
	}

	log.WithError(err).Error("error caught when fetching data from github")
	return model.ErrUpstream
}
