// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"prreporter/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchOpenPullRequests(ctx context.Context, org, repo string) ([]domain.PullRequest, error)
	FetchClosedPullRequests(ctx context.Context, org, repo string, since time.Time) ([]domain.PullRequest, error)
	FetchOrgMembers(ctx context.Context, org string) ([]domain.Member, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// pullRequestsQuery lists a repository's pull requests in the given states,
// with the review/comment metadata the aggregator needs.
type pullRequestsQuery struct {
	Repository struct {
		PullRequests struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				Number         int
				Title          string
				URL            string `graphql:"url"`
				CreatedAt      githubv4.DateTime
				ClosedAt       githubv4.DateTime
				IsDraft        bool
				ReviewDecision githubv4.PullRequestReviewDecision
				Author         struct {
					Login string
				}
				Comments struct {
					TotalCount int
				}
			}
		} `graphql:"pullRequests(states: $states, orderBy: {field: UPDATED_AT, direction: DESC}, first: 100, after: $cursor)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// apiURL overrides the API base URL for GitHub Enterprise installations; leave
// it empty for github.com.
func NewGitHubGateway(token, apiURL string, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	graphqlClient := githubv4.NewClient(httpClient)
	if apiURL != "" {
		restClient, err = restClient.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure API base URL %q: %w", apiURL, err)
		}
		graphqlClient = githubv4.NewEnterpriseClient(strings.TrimSuffix(apiURL, "/")+"/graphql", httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}, nil
}

// FetchOpenPullRequests returns all open pull requests of org/repo.
func (g *GitHubGateway) FetchOpenPullRequests(ctx context.Context, org, repo string) ([]domain.PullRequest, error) {
	g.logger.Printf("Fetching open pull requests for %s/%s...\n", org, repo)
	states := []githubv4.PullRequestState{githubv4.PullRequestStateOpen}
	return g.fetchPullRequests(ctx, org, repo, states, time.Time{})
}

// FetchClosedPullRequests returns pull requests of org/repo closed at or
// after since. Listing is ordered by last update descending, so the scan
// stops at the first pull request closed before the cutoff.
func (g *GitHubGateway) FetchClosedPullRequests(ctx context.Context, org, repo string, since time.Time) ([]domain.PullRequest, error) {
	g.logger.Printf("Fetching closed pull requests for %s/%s since %s...\n", org, repo, since.Format(domain.DateLayout))
	states := []githubv4.PullRequestState{githubv4.PullRequestStateClosed, githubv4.PullRequestStateMerged}
	return g.fetchPullRequests(ctx, org, repo, states, since)
}

func (g *GitHubGateway) fetchPullRequests(ctx context.Context, org, repo string, states []githubv4.PullRequestState, since time.Time) ([]domain.PullRequest, error) {
	variables := map[string]interface{}{
		"owner":  githubv4.String(org),
		"name":   githubv4.String(repo),
		"states": states,
		"cursor": (*githubv4.String)(nil),
	}

	var prs []domain.PullRequest
	for {
		var q pullRequestsQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, g.classifyQueryError(ctx, err, org, repo)
		}

		for _, node := range q.Repository.PullRequests.Nodes {
			closedAt := node.ClosedAt.Time
			if !since.IsZero() && !closedAt.IsZero() && closedAt.Before(since) {
				// Everything further down the list was closed even earlier.
				return prs, nil
			}
			prs = append(prs, domain.PullRequest{
				Number:         node.Number,
				Title:          node.Title,
				URL:            node.URL,
				Author:         node.Author.Login,
				CreatedAt:      node.CreatedAt.Time,
				ClosedAt:       closedAt,
				Comments:       node.Comments.TotalCount,
				Approved:       node.ReviewDecision == githubv4.PullRequestReviewDecisionApproved,
				ReadyForReview: !node.IsDraft,
				Draft:          node.IsDraft,
			})
		}

		if !q.Repository.PullRequests.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Repository.PullRequests.PageInfo.EndCursor)
		g.logger.Println("  Fetching next page of pull requests...")
	}
	g.logger.Printf("Completed fetching pull requests for %s/%s.\n", org, repo)
	return prs, nil
}

// FetchOrgMembers lists the organization's members together with their
// public email addresses. The full user profile is fetched per member
// because the membership listing does not carry emails.
func (g *GitHubGateway) FetchOrgMembers(ctx context.Context, org string) ([]domain.Member, error) {
	g.logger.Printf("Fetching members for organization %s...\n", org)
	if _, resp, err := g.restClient.Organizations.Get(ctx, org); err != nil {
		return nil, g.classifyRESTError(err, resp, org)
	}

	opts := &github.ListMembersOptions{ListOptions: github.ListOptions{PerPage: 100}}
	var members []domain.Member
	for {
		users, resp, err := g.restClient.Organizations.ListMembers(ctx, org, opts)
		if err != nil {
			return nil, g.classifyRESTError(err, resp, org)
		}
		for _, u := range users {
			full, _, err := g.restClient.Users.Get(ctx, u.GetLogin())
			if err != nil {
				return nil, fmt.Errorf("failed to fetch user %s: %w", u.GetLogin(), err)
			}
			members = append(members, domain.Member{
				Login: full.GetLogin(),
				Email: full.GetEmail(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of members...")
	}
	g.logger.Printf("Completed fetching members for %s.\n", org)
	return members, nil
}

// classifyQueryError maps GraphQL failures onto the domain error taxonomy.
// An unresolved repository is disambiguated through a REST lookup of the
// organization, since the GraphQL message is the same for both cases.
func (g *GitHubGateway) classifyQueryError(ctx context.Context, err error, org, repo string) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Could not resolve to a Repository"):
		if _, resp, orgErr := g.restClient.Organizations.Get(ctx, org); orgErr != nil && resp != nil && resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", domain.ErrOrgNotFound, org)
		}
		return fmt.Errorf("%w: %s/%s", domain.ErrRepoNotFound, org, repo)
	case strings.Contains(msg, "401") || strings.Contains(msg, "Bad credentials"):
		return fmt.Errorf("%w: %v", domain.ErrAuthInvalid, err)
	}
	return fmt.Errorf("failed to list pull requests for %s/%s: %w", org, repo, err)
}

func (g *GitHubGateway) classifyRESTError(err error, resp *github.Response, org string) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		resp = &github.Response{Response: ghErr.Response}
	}
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %v", domain.ErrAuthInvalid, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", domain.ErrOrgNotFound, org)
		}
	}
	return fmt.Errorf("GitHub API request failed: %w", err)
}
