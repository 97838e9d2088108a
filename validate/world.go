package validate

import (
	"fmt"
	"os"

	"github.com/fenwick-studio/worldstore/layout"
	"github.com/fenwick-studio/worldstore/manifest"
	"github.com/fenwick-studio/worldstore/migrate"
	"github.com/fenwick-studio/worldstore/tile"
)

func scanWorlds(project layout.Project, quarantine bool) []Issue {
	var issues []Issue

	entries, err := os.ReadDir(project.WorldsDirPath())
	if err != nil {
		return []Issue{newIssue(fmt.Sprintf("read worlds dir failed: %v", err)).withPath(project.WorldsDirPath())}
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirName := entry.Name()
		world := project.World(dirName)

		worldManifest, err := manifest.ReadWorldManifest(world.Root)
		if err != nil {
			issue := newIssue(fmt.Sprintf("world manifest read failed: %v", err)).withPath(world.ManifestPath())
			issues = append(issues, issue)
			logIssue(issue)
			continue
		}

		if worldManifest.WorldID != dirName {
			issue := newIssue("world_id does not match directory name").withPath(world.ManifestPath())
			issues = append(issues, issue)
			logIssue(issue)
		}

		clone := worldManifest
		if err := migrate.MigrateWorld(&clone); err != nil {
			issue := newIssue(fmt.Sprintf("world migration check failed: %v", err))
			issues = append(issues, issue)
			logIssue(issue)
		}

		issues = append(issues, scanWorldTiles(world, worldManifest, quarantine)...)
	}
	return issues
}

func scanWorldTiles(world layout.World, m manifest.WorldManifest, quarantine bool) []Issue {
	var issues []Issue

	if _, err := os.Stat(world.RegionsDirPath()); err != nil {
		return []Issue{newIssue("regions directory missing").withPath(world.RegionsDirPath())}
	}

	manifestRegions := make(map[string]bool, len(m.Regions))
	for _, region := range m.Regions {
		manifestRegions[region.RegionID] = true
		issues = append(issues, validateRegionEntry(world, region)...)
	}

	regionDirs, err := os.ReadDir(world.RegionsDirPath())
	if err != nil {
		issues = append(issues, newIssue(fmt.Sprintf("read regions dir failed: %v", err)).withPath(world.RegionsDirPath()))
		return issues
	}
	for _, entry := range regionDirs {
		if !entry.IsDir() || entry.Name() == layout.QuarantineDirName {
			continue
		}
		if !manifestRegions[entry.Name()] {
			path := world.Region(entry.Name()).Root
			issue := newIssue("region directory not listed in world manifest").withPath(path)
			issues = append(issues, issue)
			logIssue(issue)
		}
	}

	expectedSpecHash := tile.HashWorldSpecFromManifest(m)
	legacySpecHash := tile.HashWorldSpecLegacy(m.WorldSpec)
	for _, region := range m.Regions {
		issues = append(issues, scanRegionTiles(world, region, expectedSpecHash, legacySpecHash, m.WorldSpec, quarantine)...)
	}
	return issues
}

func validateRegionEntry(world layout.World, region manifest.RegionManifest) []Issue {
	var issues []Issue
	if trimEmpty(region.RegionID) {
		issue := newIssue("region_id is empty")
		issues = append(issues, issue)
		logIssue(issue)
	}
	if !region.Bounds.IsValid() {
		issue := newIssue("region bounds are invalid").withPath(world.ManifestPath())
		issues = append(issues, issue)
		logIssue(issue)
	}
	return issues
}

func trimEmpty(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' {
			return false
		}
	}
	return true
}
