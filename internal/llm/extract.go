package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceOpen  = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*")
	fenceClose = regexp.MustCompile("(?s)```\\s*$")
)

// StripCodeFence removes an optional markdown code fence wrapping the
// payload. Models wrap JSON in ```json ... ``` blocks despite being
// told not to.
func StripCodeFence(response string) string {
	response = strings.TrimSpace(response)
	response = fenceOpen.ReplaceAllString(response, "")
	response = fenceClose.ReplaceAllString(response, "")
	return strings.TrimSpace(response)
}

// ExtractJSON extracts a JSON object or array from an LLM response
// that may contain a code fence or stray prose around the payload.
func ExtractJSON(response string) (string, error) {
	response = StripCodeFence(response)

	start := strings.IndexAny(response, "{[")
	if start == -1 {
		return "", fmt.Errorf("no JSON payload found in response")
	}

	var end int
	if response[start] == '{' {
		end = strings.LastIndex(response, "}")
	} else {
		end = strings.LastIndex(response, "]")
	}
	if end == -1 || end < start {
		return "", fmt.Errorf("no JSON payload found in response")
	}

	jsonStr := response[start : end+1]

	var js json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &js); err != nil {
		return "", fmt.Errorf("extracted text is not valid JSON: %w", err)
	}

	return jsonStr, nil
}
