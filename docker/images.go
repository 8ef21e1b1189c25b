package docker

import (
	"context"
	"strings"

	"github.com/goasutlor/flexideploy/model"
)

const imagesFormat = "{{.Repository}}\t{{.Tag}}\t{{.ID}}\t{{.CreatedAt}}\t{{.Size}}"

// LocalImages lists the images known to the local docker daemon. An
// unreachable daemon yields an empty list, not an error: the dashboard only
// shows real data and degrades to nothing.
func LocalImages(ctx context.Context, run Runner) []model.LocalImage {
	out, err := run(ctx, "", "images", "--format", imagesFormat)
	if err != nil {
		return nil
	}

	var images []model.LocalImage
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < 5 {
			continue
		}
		repo, tag := parts[0], parts[1]
		if repo == "<none>" || tag == "<none>" {
			continue
		}
		images = append(images, model.LocalImage{
			Name:    repo + ":" + tag,
			ID:      parts[2],
			Created: parts[3],
			Size:    parts[4],
		})
	}
	return images
}
