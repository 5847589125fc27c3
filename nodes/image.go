package nodes

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/nodeflow/client"
	"github.com/BaSui01/nodeflow/media"
)

// ImageNode drives the image generation endpoint and decodes every result
// (URL or base64) into a host pixel buffer.
type ImageNode struct {
	base
}

func NewImageNode(c *client.Client, logger *zap.Logger) *ImageNode {
	return &ImageNode{base: newBase(c, logger, "image")}
}

type ImageInput struct {
	Prompt    string
	Model     string // empty is fine, some endpoints reject a model field
	Size      string
	Overrides string
}

// ImageOutput is fail-soft: on failure Images holds one blank placeholder
// so downstream nodes still receive a pixel buffer.
type ImageOutput struct {
	Images []*media.Image
	URLs   string // newline-joined source URLs, "" for base64 results
	Error  string
}

func placeholderImage() []*media.Image {
	return []*media.Image{media.Blank(512, 512)}
}

func (n *ImageNode) Run(ctx context.Context, in ImageInput) ImageOutput {
	opts, err := parseOverrides(in.Overrides)
	if err != nil {
		return ImageOutput{Images: placeholderImage(), Error: n.softError("image generation", err)}
	}
	if in.Size != "" {
		if opts == nil {
			opts = client.Options{}
		}
		if _, set := opts["size"]; !set {
			opts["size"] = in.Size
		}
	}

	resp, err := n.client.GenerateImage(ctx, in.Model, in.Prompt, opts)
	if err != nil {
		return ImageOutput{Images: placeholderImage(), Error: n.softError("image generation", err)}
	}

	results := client.ImageResults(resp)
	if len(results) == 0 {
		return ImageOutput{Images: placeholderImage(), Error: n.softError("image generation", errNoImages)}
	}

	var images []*media.Image
	var urls []string
	for _, r := range results {
		img, err := n.decodeResult(ctx, r)
		if err != nil {
			n.logger.Warn("failed to decode generated image", zap.Error(err))
			continue
		}
		images = append(images, img)
		if r.URL != "" {
			urls = append(urls, r.URL)
		}
	}

	if len(images) == 0 {
		return ImageOutput{Images: placeholderImage(), Error: n.softError("image generation", errNoImages)}
	}
	return ImageOutput{Images: images, URLs: strings.Join(urls, "\n")}
}

func (n *ImageNode) decodeResult(ctx context.Context, r client.ImageResult) (*media.Image, error) {
	if r.B64JSON != "" {
		return media.Base64ToImage(r.B64JSON)
	}
	return media.FetchImage(ctx, r.URL)
}

var errNoImages = errors.New("response contained no decodable images")
