package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v50/github"

	"github.com/goasutlor/flexideploy/model"
)

// AuthenticatedUser verifies the token against the identity endpoint and
// returns the account login. Any non-200 response or timeout is an error.
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("github authentication failed: %v", err)
	}
	return user.GetLogin(), nil
}

// RepoExists checks that the "owner/repo" repository is accessible.
func (c *Client) RepoExists(ctx context.Context, fullName string) error {
	owner, repo, err := splitFullName(fullName)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	if _, _, err := c.gh.Repositories.Get(ctx, owner, repo); err != nil {
		return fmt.Errorf("repository not found: %s (%v)", fullName, err)
	}
	return nil
}

// CreateRepo creates a repository under the authenticated user. A 422
// response means the repository already exists, which is just as acceptable
// as creating it.
func (c *Client) CreateRepo(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	repo := &github.Repository{
		Name:     github.String(name),
		Private:  github.Bool(false),
		AutoInit: github.Bool(false),
	}
	_, _, err := c.gh.Repositories.Create(ctx, "", repo)
	if err == nil {
		return nil
	}
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil &&
		errResp.Response.StatusCode == http.StatusUnprocessableEntity {
		return nil
	}
	return fmt.Errorf("failed to create repository %s: %v", name, err)
}

// CreateRepoDetailed creates a repository with a description and visibility
// for the dashboard's create form, initialized with a README. Unlike
// CreateRepo, an already-existing repository is an error here: the operator
// asked for a new one.
func (c *Client) CreateRepoDetailed(ctx context.Context, name, description string, private bool) (model.Repository, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	created, _, err := c.gh.Repositories.Create(ctx, "", &github.Repository{
		Name:        github.String(name),
		Description: github.String(description),
		Private:     github.Bool(private),
		AutoInit:    github.Bool(true),
	})
	if err != nil {
		return model.Repository{}, fmt.Errorf("failed to create repository %s: %v", name, err)
	}

	visibility := "public"
	if created.GetPrivate() {
		visibility = "private"
	}
	return model.Repository{
		Name:        created.GetName(),
		FullName:    created.GetFullName(),
		Description: created.GetDescription(),
		Private:     created.GetPrivate(),
		Visibility:  visibility,
		URL:         created.GetHTMLURL(),
		CreatedAt:   created.GetCreatedAt().Format(time.RFC3339),
	}, nil
}

// ListRepos returns the repositories of the given user for the dashboard's
// repository picker.
func (c *Client) ListRepos(ctx context.Context, username string) ([]model.Repository, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	repos, _, err := c.gh.Repositories.List(ctx, username, &github.RepositoryListOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %v", err)
	}

	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		visibility := "public"
		if r.GetPrivate() {
			visibility = "private"
		}
		language := r.GetLanguage()
		if language == "" {
			language = "Unknown"
		}
		out = append(out, model.Repository{
			Name:        r.GetName(),
			FullName:    r.GetFullName(),
			Description: r.GetDescription(),
			Language:    language,
			Private:     r.GetPrivate(),
			Visibility:  visibility,
			URL:         r.GetHTMLURL(),
			CreatedAt:   r.GetCreatedAt().Format(time.RFC3339),
			UpdatedAt:   r.GetUpdatedAt().Format(time.RFC3339),
		})
	}
	return out, nil
}

func splitFullName(fullName string) (owner, repo string, err error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository must be owner/repo, got %q", fullName)
	}
	return parts[0], parts[1], nil
}
