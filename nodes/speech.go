package nodes

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/nodeflow/client"
	"github.com/BaSui01/nodeflow/media"
)

// SpeechNode drives the TTS endpoint and wraps the raw audio bytes into a
// host clip.
type SpeechNode struct {
	base
}

func NewSpeechNode(c *client.Client, logger *zap.Logger) *SpeechNode {
	return &SpeechNode{base: newBase(c, logger, "speech")}
}

type SpeechInput struct {
	Text      string
	Model     string
	Voice     string
	Format    string // response_format: mp3, opus, aac, flac, wav, pcm
	Overrides string
}

// SpeechOutput is fail-soft: on failure Clip is a silent placeholder.
type SpeechOutput struct {
	Clip   *media.Clip
	Status string
	Error  string
}

func (n *SpeechNode) Run(ctx context.Context, in SpeechInput) SpeechOutput {
	format := in.Format
	if format == "" {
		format = "mp3"
	}

	opts, err := parseOverrides(in.Overrides)
	if err != nil {
		return SpeechOutput{Clip: media.SilentClip(format), Error: n.softError("speech synthesis", err)}
	}
	if opts == nil {
		opts = client.Options{}
	}
	if _, set := opts["response_format"]; !set {
		opts["response_format"] = format
	}

	model := in.Model
	if model == "" {
		model = "tts-1"
	}
	voice := in.Voice
	if voice == "" {
		voice = "alloy"
	}

	data, err := n.client.GenerateSpeech(ctx, model, in.Text, voice, opts)
	if err != nil {
		return SpeechOutput{Clip: media.SilentClip(format), Error: n.softError("speech synthesis", err)}
	}

	return SpeechOutput{
		Clip:   &media.Clip{Data: data, Format: format},
		Status: fmt.Sprintf("generated %d bytes of %s audio", len(data), format),
	}
}
