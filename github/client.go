package github

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v50/github"
	"golang.org/x/oauth2"
)

// apiTimeout is the budget for any single github API call.
const apiTimeout = 60 * time.Second

// Client wraps the go-github client with the handful of calls the dashboard
// and the deployment pipeline need.
type Client struct {
	gh *github.Client
}

// NewClient creates a new github client for the apiURL,
// authenticated with the supplied token
func NewClient(apiURL, token string) (client *Client, err error) {
	tokenService := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tokenClient := oauth2.NewClient(context.Background(), tokenService)

	gh, err := github.NewEnterpriseClient(apiURL, apiURL, tokenClient)
	if err != nil {
		return nil, fmt.Errorf("cannot create github client: %v", err)
	}

	return &Client{gh: gh}, nil
}
