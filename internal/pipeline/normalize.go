package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fraudops/alert-triage/internal/model"
)

// StripFences removes a leading/trailing markdown code fence from generated
// text. Generation backends frequently wrap JSON answers in ```json fences
// despite being told not to.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}

// decodeStage1 normalizes raw generated text into a stage-1 result. Malformed
// output becomes a sentinel carrying the failure and the original text.
func decodeStage1(raw string) model.Stage1Result {
	var r model.Stage1Result
	if err := json.Unmarshal([]byte(StripFences(raw)), &r); err != nil {
		return model.Stage1Result{
			Error:       fmt.Sprintf("failed to parse JSON response: %v", err),
			RawResponse: raw,
		}
	}
	return r
}

// decodeStage2 normalizes raw generated text into a stage-2 result.
func decodeStage2(raw string) model.Stage2Result {
	var r model.Stage2Result
	if err := json.Unmarshal([]byte(StripFences(raw)), &r); err != nil {
		return model.Stage2Result{
			Error:       fmt.Sprintf("failed to parse JSON response: %v", err),
			RawResponse: raw,
		}
	}
	return r
}

// decodeStage3 normalizes raw generated text into a stage-3 result.
func decodeStage3(raw string) model.Stage3Result {
	var r model.Stage3Result
	if err := json.Unmarshal([]byte(StripFences(raw)), &r); err != nil {
		return model.Stage3Result{
			Error:       fmt.Sprintf("failed to parse JSON response: %v", err),
			RawResponse: raw,
		}
	}
	return r
}
