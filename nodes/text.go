package nodes

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/nodeflow/client"
	"github.com/BaSui01/nodeflow/media"
)

// TextNode drives the chat completion endpoint. With an image attached it
// sends a vision request: the prompt becomes a content-part list carrying
// the text plus the image as a PNG data URI.
type TextNode struct {
	base
}

func NewTextNode(c *client.Client, logger *zap.Logger) *TextNode {
	return &TextNode{base: newBase(c, logger, "text")}
}

// TextInput are the node's fields as the host delivers them.
type TextInput struct {
	Prompt       string
	Model        string
	SystemPrompt string
	Image        *media.Image // optional vision attachment
	Overrides    string       // advanced params JSON, merged last
}

// TextOutput is fail-soft: on failure Text is empty, FullResponse is "{}"
// and Error carries the message. Error is empty on success.
type TextOutput struct {
	Text         string
	FullResponse string
	Error        string
}

func (n *TextNode) Run(ctx context.Context, in TextInput) TextOutput {
	opts, err := parseOverrides(in.Overrides)
	if err != nil {
		return TextOutput{FullResponse: "{}", Error: n.softError("chat completion", err)}
	}

	messages, err := n.buildMessages(in)
	if err != nil {
		return TextOutput{FullResponse: "{}", Error: n.softError("chat completion", err)}
	}

	resp, err := n.client.ChatCompletion(ctx, in.Model, messages, opts)
	if err != nil {
		return TextOutput{FullResponse: "{}", Error: n.softError("chat completion", err)}
	}

	text, err := client.FirstChoiceContent(resp)
	if err != nil {
		return TextOutput{FullResponse: marshalResponse(resp), Error: n.softError("chat completion", err)}
	}

	return TextOutput{Text: text, FullResponse: marshalResponse(resp)}
}

func (n *TextNode) buildMessages(in TextInput) ([]map[string]any, error) {
	var messages []map[string]any
	if in.SystemPrompt != "" {
		messages = append(messages, map[string]any{
			"role":    "system",
			"content": in.SystemPrompt,
		})
	}

	if in.Image == nil {
		messages = append(messages, map[string]any{
			"role":    "user",
			"content": in.Prompt,
		})
		return messages, nil
	}

	uri, err := media.ImageToDataURI(in.Image)
	if err != nil {
		return nil, err
	}
	messages = append(messages, map[string]any{
		"role": "user",
		"content": []map[string]any{
			{"type": "text", "text": in.Prompt},
			{"type": "image_url", "image_url": map[string]any{"url": uri}},
		},
	})
	return messages, nil
}
