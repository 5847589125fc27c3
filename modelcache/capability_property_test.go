package modelcache

import (
	"testing"

	"pgregory.net/rapid"
)

// Properties the filter must hold for arbitrary inputs: it never invents
// IDs, never reorders them, and never returns an empty result for a
// non-empty input.
func TestFilterByCapability_Properties(t *testing.T) {
	capabilities := []Capability{
		CapabilityText, CapabilityVision, CapabilityImage,
		CapabilityAudio, CapabilitySpeech, CapabilityVideo,
		Capability("bogus"),
	}

	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.SliceOfN(rapid.StringMatching(`[a-zA-Z0-9.-]{1,24}`), 0, 20).Draw(t, "ids")
		capability := rapid.SampledFrom(capabilities).Draw(t, "capability")

		out := FilterByCapability(ids, capability)

		if len(ids) > 0 && len(out) == 0 {
			t.Fatalf("non-empty input produced empty output")
		}
		if len(out) > len(ids) {
			t.Fatalf("output longer than input: %d > %d", len(out), len(ids))
		}

		// out must be a subsequence of ids
		i := 0
		for _, id := range out {
			for i < len(ids) && ids[i] != id {
				i++
			}
			if i == len(ids) {
				t.Fatalf("output %q is not a subsequence of the input", id)
			}
			i++
		}
	})
}
