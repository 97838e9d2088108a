package validate

import (
	"encoding/json"
	"fmt"
)

// ProjectJSON is Project, pretty-printed as JSON.
func ProjectJSON(projectRoot string) (string, error) {
	return marshalIssues(Project(projectRoot))
}

// ProjectAndQuarantineJSON is ProjectAndQuarantine, pretty-printed as JSON.
func ProjectAndQuarantineJSON(projectRoot string) (string, error) {
	return marshalIssues(ProjectAndQuarantine(projectRoot))
}

func marshalIssues(issues []Issue) (string, error) {
	if issues == nil {
		issues = []Issue{}
	}
	text, err := json.MarshalIndent(issues, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal validation issues: %w", err)
	}
	return string(text), nil
}
