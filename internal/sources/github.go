package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/cv-enricher/internal/types"
)

// DefaultGitHubBaseURL is the GitHub REST v3 endpoint.
const DefaultGitHubBaseURL = "https://api.github.com"

// maxReposPerPage is the GitHub API page-size cap.
const maxReposPerPage = 100

// GitHubAdapter fetches a user's public profile, repositories, and aggregate
// language statistics from the GitHub REST API.
type GitHubAdapter struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewGitHubAdapter creates a GitHub adapter. token may be empty for
// unauthenticated (rate-limited) access.
func NewGitHubAdapter(baseURL, token string) *GitHubAdapter {
	if baseURL == "" {
		baseURL = DefaultGitHubBaseURL
	}
	return &GitHubAdapter{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// ID returns the source identifier.
func (a *GitHubAdapter) ID() types.SourceID {
	return types.SourceGitHub
}

// githubUser mirrors the fields we read from GET /users/{username}.
type githubUser struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	HTMLURL     string `json:"html_url"`
	Followers   int    `json:"followers"`
	PublicRepos int    `json:"public_repos"`
}

// githubRepo mirrors the fields we read from GET /users/{username}/repos.
type githubRepo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Language    string    `json:"language"`
	Topics      []string  `json:"topics"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	Size        int       `json:"size"` // KB
	Private     bool      `json:"private"`
	Fork        bool      `json:"fork"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Fetch retrieves the user's profile and repositories. An unknown username
// yields an empty payload, not an error; only transport and API failures
// are returned to the caller.
func (a *GitHubAdapter) Fetch(ctx context.Context, req Request) (*types.SourcePayload, error) {
	if req.GitHubUsername == "" {
		return &types.SourcePayload{GitHub: &types.GitHubData{}}, nil
	}

	var user githubUser
	found, err := a.getJSON(ctx, fmt.Sprintf("/users/%s", req.GitHubUsername), &user)
	if err != nil {
		return nil, fmt.Errorf("github profile fetch failed: %w", err)
	}
	if !found {
		return &types.SourcePayload{GitHub: &types.GitHubData{}}, nil
	}

	var repos []githubRepo
	if _, err := a.getJSON(ctx, fmt.Sprintf("/users/%s/repos?per_page=%d&sort=updated", req.GitHubUsername, maxReposPerPage), &repos); err != nil {
		return nil, fmt.Errorf("github repos fetch failed: %w", err)
	}

	data := &types.GitHubData{
		Username:    user.Login,
		Name:        user.Name,
		Bio:         user.Bio,
		ProfileURL:  user.HTMLURL,
		Followers:   user.Followers,
		PublicRepos: user.PublicRepos,
		Languages:   make(map[string]int),
	}

	for _, repo := range repos {
		if repo.Private {
			continue
		}
		data.Repositories = append(data.Repositories, types.GitHubRepo{
			Name:        repo.Name,
			Description: repo.Description,
			URL:         repo.HTMLURL,
			Language:    repo.Language,
			Topics:      repo.Topics,
			Stars:       repo.Stars,
			Forks:       repo.Forks,
			UpdatedAt:   repo.UpdatedAt,
		})
		// Aggregate language statistics from the repo's primary language,
		// weighted by repository size. Avoids one languages call per repo.
		if repo.Language != "" && !repo.Fork {
			data.Languages[repo.Language] += repo.Size * 1024
		}
	}

	return &types.SourcePayload{GitHub: data}, nil
}

// getJSON issues one authenticated GET and decodes the response. Returns
// found=false on 404 without error.
func (a *GitHubAdapter) getJSON(ctx context.Context, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", a.baseURL+path, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("github API status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("github API decode failed: %w", err)
	}
	return true, nil
}
