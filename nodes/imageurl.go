package nodes

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/nodeflow/media"
)

// ImageURLNode loads an image from a URL into a host pixel buffer. A
// utility node: no API client involved, just a download and a decode.
type ImageURLNode struct {
	logger *zap.Logger
}

func NewImageURLNode(logger *zap.Logger) *ImageURLNode {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageURLNode{logger: logger.With(zap.String("node", "image_url"))}
}

type ImageURLOutput struct {
	Image *media.Image
	Error string
}

func (n *ImageURLNode) Run(ctx context.Context, url string) ImageURLOutput {
	img, err := media.FetchImage(ctx, url)
	if err != nil {
		n.logger.Warn("image download failed", zap.String("url", url), zap.Error(err))
		return ImageURLOutput{
			Image: media.Blank(512, 512),
			Error: "image download failed: " + err.Error(),
		}
	}
	return ImageURLOutput{Image: img}
}
