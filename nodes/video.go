package nodes

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/nodeflow/client"
)

// VideoNode drives the video generation endpoint. Endpoints split into two
// shapes: synchronous ones that return the video URL directly, and async
// ones that return a job id to poll. The node handles both.
type VideoNode struct {
	base
	pollInterval time.Duration
}

func NewVideoNode(c *client.Client, logger *zap.Logger) *VideoNode {
	return &VideoNode{
		base:         newBase(c, logger, "video"),
		pollInterval: 5 * time.Second,
	}
}

type VideoInput struct {
	Prompt    string
	Model     string
	Overrides string
	Wait      bool // poll async jobs to completion instead of returning the job id
}

// VideoOutput is fail-soft: on failure URL is empty and Error carries the
// message.
type VideoOutput struct {
	URL          string
	FullResponse string
	Error        string
}

func (n *VideoNode) Run(ctx context.Context, in VideoInput) VideoOutput {
	opts, err := parseOverrides(in.Overrides)
	if err != nil {
		return VideoOutput{FullResponse: "{}", Error: n.softError("video generation", err)}
	}

	resp, err := n.client.GenerateVideo(ctx, in.Model, in.Prompt, opts)
	if err != nil {
		return VideoOutput{FullResponse: "{}", Error: n.softError("video generation", err)}
	}

	if url := client.VideoURL(resp); url != "" {
		return VideoOutput{URL: url, FullResponse: marshalResponse(resp)}
	}

	// no URL yet: async job
	id, _ := resp["id"].(string)
	if id == "" {
		return VideoOutput{
			FullResponse: marshalResponse(resp),
			Error:        n.softError("video generation", errors.New("response carried neither a video URL nor a job id")),
		}
	}
	if !in.Wait {
		return VideoOutput{FullResponse: marshalResponse(resp)}
	}

	final, err := n.client.WaitForVideo(ctx, id, n.pollInterval)
	if err != nil {
		return VideoOutput{FullResponse: marshalResponse(resp), Error: n.softError("video generation", err)}
	}

	url := client.VideoURL(final)
	if url == "" {
		return VideoOutput{
			FullResponse: marshalResponse(final),
			Error:        n.softError("video generation", errors.New("completed job carried no video URL")),
		}
	}
	return VideoOutput{URL: url, FullResponse: marshalResponse(final)}
}
