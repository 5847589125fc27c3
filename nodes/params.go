package nodes

import "encoding/json"

// Params builder nodes. Each collects the advanced fields of one endpoint
// and emits the overrides JSON the main nodes merge last-write-wins into
// the request body. Zero values are left out so the endpoint's own
// defaults apply.

// TextParams are the advanced chat completion fields.
type TextParams struct {
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
	Seed             int
	Stop             []string
}

func (p TextParams) JSON() string {
	out := map[string]any{}
	if p.Temperature != 0 {
		out["temperature"] = p.Temperature
	}
	if p.MaxTokens != 0 {
		out["max_tokens"] = p.MaxTokens
	}
	if p.TopP != 0 {
		out["top_p"] = p.TopP
	}
	if p.FrequencyPenalty != 0 {
		out["frequency_penalty"] = p.FrequencyPenalty
	}
	if p.PresencePenalty != 0 {
		out["presence_penalty"] = p.PresencePenalty
	}
	if p.Seed != 0 {
		out["seed"] = p.Seed
	}
	if len(p.Stop) > 0 {
		out["stop"] = p.Stop
	}
	return encodeParams(out)
}

// ImageParams are the advanced image generation fields.
type ImageParams struct {
	Size           string
	Quality        string // standard | hd
	Style          string // vivid | natural
	N              int
	ResponseFormat string // url | b64_json
}

func (p ImageParams) JSON() string {
	out := map[string]any{}
	if p.Size != "" {
		out["size"] = p.Size
	}
	if p.Quality != "" {
		out["quality"] = p.Quality
	}
	if p.Style != "" {
		out["style"] = p.Style
	}
	if p.N > 0 {
		out["n"] = p.N
	}
	if p.ResponseFormat != "" {
		out["response_format"] = p.ResponseFormat
	}
	return encodeParams(out)
}

// VideoParams are the advanced video generation fields.
type VideoParams struct {
	Duration    int    // seconds
	AspectRatio string // e.g. "16:9"
	Resolution  string // e.g. "1080p"
	FPS         int
}

func (p VideoParams) JSON() string {
	out := map[string]any{}
	if p.Duration > 0 {
		out["duration"] = p.Duration
	}
	if p.AspectRatio != "" {
		out["aspect_ratio"] = p.AspectRatio
	}
	if p.Resolution != "" {
		out["resolution"] = p.Resolution
	}
	if p.FPS > 0 {
		out["fps"] = p.FPS
	}
	return encodeParams(out)
}

// SpeechParams are the advanced TTS fields.
type SpeechParams struct {
	Speed          float64 // 0.25 .. 4.0
	ResponseFormat string
	Instructions   string
}

func (p SpeechParams) JSON() string {
	out := map[string]any{}
	if p.Speed != 0 {
		out["speed"] = p.Speed
	}
	if p.ResponseFormat != "" {
		out["response_format"] = p.ResponseFormat
	}
	if p.Instructions != "" {
		out["instructions"] = p.Instructions
	}
	return encodeParams(out)
}

func encodeParams(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	data, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(data)
}
