package modelcache

import "strings"

// Capability names a model family a node can ask for.
type Capability string

const (
	CapabilityText   Capability = "text"
	CapabilityVision Capability = "vision"
	CapabilityImage  Capability = "image"
	CapabilityAudio  Capability = "audio"
	CapabilitySpeech Capability = "speech"
	CapabilityVideo  Capability = "video"
)

// capabilityKeywords maps a capability to the substrings that identify a
// matching model ID. Heuristic by necessity: OpenAI-compatible endpoints
// expose no capability metadata, so the ID is all there is to go on.
var capabilityKeywords = map[Capability][]string{
	CapabilityText:   {"gpt", "claude", "llama", "mistral", "qwen"},
	CapabilityVision: {"vision", "gpt-4", "claude-3", "gemini"},
	CapabilityImage:  {"dall-e", "dalle", "stable-diffusion", "sd", "flux", "midjourney"},
	CapabilityAudio:  {"tts", "whisper", "speech", "audio"},
	CapabilitySpeech: {"tts", "whisper", "speech", "audio"},
	CapabilityVideo:  {"video", "sora", "runway", "kling", "pika"},
}

// Keywords returns the match list for a capability, or nil when the
// capability is unknown.
func Keywords(capability Capability) []string {
	return capabilityKeywords[capability]
}

// FilterByCapability returns the IDs whose lowercase form contains any of
// the capability's keywords.
//
// When nothing matches (including an unknown capability, which has no
// keywords) all input IDs are returned unchanged. A wrong guess that hides
// every model strands the user, while an unfiltered list merely makes the
// dropdown longer.
func FilterByCapability(ids []string, capability Capability) []string {
	keywords := capabilityKeywords[capability]

	matched := make([]string, 0, len(ids))
	for _, id := range ids {
		lower := strings.ToLower(id)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, id)
				break
			}
		}
	}

	if len(matched) == 0 {
		out := make([]string, len(ids))
		copy(out, ids)
		return out
	}
	return matched
}
