package client

import "fmt"

// FirstChoiceContent safely extracts choices[0].message.content from a chat
// completion response.
func FirstChoiceContent(resp map[string]any) (string, error) {
	choices, _ := resp["choices"].([]any)
	if len(choices) == 0 {
		return "", fmt.Errorf("empty choices in chat response (model returned no choices)")
	}
	choice, ok := choices[0].(map[string]any)
	if !ok {
		return "", fmt.Errorf("malformed choice in chat response")
	}
	message, ok := choice["message"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("missing message in chat response")
	}
	content, _ := message["content"].(string)
	return content, nil
}

// ImageResult is one generated image, delivered either as a URL or as
// base64 data depending on the requested response_format.
type ImageResult struct {
	URL           string
	B64JSON       string
	RevisedPrompt string
}

// ImageResults extracts the data array from an image generation response.
func ImageResults(resp map[string]any) []ImageResult {
	raw, _ := resp["data"].([]any)
	results := make([]ImageResult, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var r ImageResult
		r.URL, _ = m["url"].(string)
		r.B64JSON, _ = m["b64_json"].(string)
		r.RevisedPrompt, _ = m["revised_prompt"].(string)
		results = append(results, r)
	}
	return results
}

// VideoURL extracts the video URL from a generation response. Endpoints
// differ: some nest it under video.url, others under data[0].url.
func VideoURL(resp map[string]any) string {
	if video, ok := resp["video"].(map[string]any); ok {
		if url, ok := video["url"].(string); ok && url != "" {
			return url
		}
	}
	if data, ok := resp["data"].([]any); ok && len(data) > 0 {
		if m, ok := data[0].(map[string]any); ok {
			if url, ok := m["url"].(string); ok {
				return url
			}
		}
	}
	if url, ok := resp["url"].(string); ok {
		return url
	}
	return ""
}
