package validate

import (
	"fmt"
	"os"

	"github.com/fenwick-studio/worldstore/layout"
	"github.com/fenwick-studio/worldstore/manifest"
	"github.com/fenwick-studio/worldstore/migrate"
	"github.com/sirupsen/logrus"
)

// Project walks projectRoot read-only and returns every issue found.
func Project(projectRoot string) []Issue {
	return run(projectRoot, false)
}

// ProjectAndQuarantine walks projectRoot and relocates any tile that
// accumulates at least one issue into its region's quarantine directory.
func ProjectAndQuarantine(projectRoot string) []Issue {
	return run(projectRoot, true)
}

func run(projectRoot string, quarantine bool) []Issue {
	var issues []Issue
	project := layout.NewProject(projectRoot)

	m, err := manifest.ReadProjectManifest(projectRoot)
	if err != nil {
		issue := newIssue(fmt.Sprintf("manifest read failed: %v", err)).withPath(project.ManifestPath())
		logIssue(issue)
		return []Issue{issue}
	}

	if m.FormatVersion > manifest.ProjectFormatVersion {
		issue := newIssue(fmt.Sprintf(
			"manifest format version %d exceeds supported %d", m.FormatVersion, manifest.ProjectFormatVersion,
		)).withPath(project.ManifestPath())
		issues = append(issues, issue)
		logIssue(issue)
	}

	clone := m
	if err := migrate.MigrateProject(&clone); err != nil {
		issue := newIssue(fmt.Sprintf("manifest migration check failed: %v", err))
		issues = append(issues, issue)
		logIssue(issue)
	}

	if _, err := os.Stat(project.WorldsDirPath()); err != nil {
		issue := newIssue("worlds directory missing").withPath(project.WorldsDirPath())
		issues = append(issues, issue)
		logIssue(issue)
		return issues
	}

	issues = append(issues, scanWorlds(project, quarantine)...)
	return issues
}

func logIssue(issue Issue) {
	logrus.WithField("path", issue.Path).Warn(issue.Message)
}
