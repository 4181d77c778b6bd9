package subrip

import (
	"fmt"
	"os"
	"strings"
)

// ValidateContent checks an SRT file for structural issues. Returns a list
// of issues found; an empty slice means validation passed.
func ValidateContent(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}

	var issues []string
	cues := Parse(data)
	if len(cues) == 0 {
		if strings.TrimSpace(string(data)) == "" {
			issues = append(issues, "empty_subtitle_file")
		} else {
			issues = append(issues, "no_valid_cues")
		}
		return issues, nil
	}

	for i, cue := range cues {
		if cue.End <= cue.Start {
			issues = append(issues, fmt.Sprintf("cue_%d: end_not_after_start", i+1))
		}
		if strings.TrimSpace(cue.Text) == "" {
			issues = append(issues, fmt.Sprintf("cue_%d: empty_text", i+1))
		}
		if i > 0 && cues[i-1].End > cue.Start {
			issues = append(issues, fmt.Sprintf("cue_%d: overlaps_previous", i+1))
		}
	}
	return issues, nil
}
