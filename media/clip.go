package media

// Clip is a host-native audio value: the encoded bytes plus the container
// format the endpoint produced ("mp3", "opus", "aac", "flac", "wav",
// "pcm"). NodeFlow never decodes audio; the host player does.
type Clip struct {
	Data   []byte
	Format string
}

// Empty reports whether the clip carries no audio.
func (c *Clip) Empty() bool {
	return c == nil || len(c.Data) == 0
}

// SilentClip returns the placeholder used when speech synthesis fails.
func SilentClip(format string) *Clip {
	if format == "" {
		format = "mp3"
	}
	return &Clip{Format: format}
}
