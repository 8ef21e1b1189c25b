package github

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/go-github/v50/github"

	"github.com/goasutlor/flexideploy/model"
)

// ContainerPackages returns every container package of the authenticated
// user, including per-version details, newest version first.
func (c *Client) ContainerPackages(ctx context.Context) ([]model.ContainerPackage, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	opts := &github.PackageListOptions{PackageType: github.String("container")}
	packages, _, err := c.gh.Users.ListPackages(ctx, "", opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %v", err)
	}

	out := make([]model.ContainerPackage, 0, len(packages))
	for _, pkg := range packages {
		if pkg.GetPackageType() != "container" {
			continue
		}
		name := pkg.GetName()
		versions, err := c.packageVersions(ctx, name)
		if err != nil {
			// a package without readable versions still shows up in the list
			versions = nil
		}
		out = append(out, model.ContainerPackage{
			Name:       name,
			FullName:   fmt.Sprintf("%s/%s", pkg.GetOwner().GetLogin(), name),
			ID:         pkg.GetID(),
			Visibility: pkg.GetVisibility(),
			CreatedAt:  pkg.GetCreatedAt().Format(time.RFC3339),
			UpdatedAt:  pkg.GetUpdatedAt().Format(time.RFC3339),
			URL:        pkg.GetHTMLURL(),
			Versions:   len(versions),
			Details:    versions,
		})
	}
	return out, nil
}

func (c *Client) packageVersions(ctx context.Context, name string) ([]model.PackageVersion, error) {
	versions, _, err := c.gh.Users.PackageGetAllVersions(ctx, "", "container", name, nil)
	if err != nil {
		return nil, err
	}
	out := make([]model.PackageVersion, 0, len(versions))
	for _, v := range versions {
		out = append(out, model.PackageVersion{
			Name:      v.GetName(),
			ID:        v.GetID(),
			CreatedAt: v.GetCreatedAt().Format(time.RFC3339),
			UpdatedAt: v.GetUpdatedAt().Format(time.RFC3339),
			URL:       v.GetHTMLURL(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt > out[j].UpdatedAt })
	return out, nil
}
