// Package validate walks a project tree and reports every way its
// manifests and tile containers deviate from the format this module
// writes, optionally quarantining any tile that fails.
package validate

// Issue is one validation finding: a human-readable message, optionally
// anchored to a filesystem path.
type Issue struct {
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

func newIssue(message string) Issue {
	return Issue{Message: message}
}

func (i Issue) withPath(path string) Issue {
	i.Path = path
	return i
}
