package validate

import (
	"fmt"
	"math"

	"github.com/fenwick-studio/worldstore/manifest"
	"github.com/fenwick-studio/worldstore/tile"
)

// validateSections decodes each declared section and runs its
// section-specific checks.
func validateSections(reader *tile.Reader, tilePath string, expectedSpec manifest.WorldSpec) []Issue {
	var issues []Issue

	if _, ok := reader.Section(tile.TagMETA); !ok {
		issue := newIssue("missing META section").withPath(tilePath)
		issues = append(issues, issue)
		logIssue(issue)
	}

	for _, tag := range reader.Tags() {
		payload, err := reader.DecodeSection(tag)
		if err != nil {
			issue := newIssue(fmt.Sprintf("section %s read failed: %v", tag, err)).withPath(tilePath)
			issues = append(issues, issue)
			logIssue(issue)
			continue
		}

		switch tag {
		case tile.TagMETA:
			if _, err := tile.DecodeMeta(payload); err != nil {
				issue := newIssue(fmt.Sprintf("META decode failed: %v", err)).withPath(tilePath)
				issues = append(issues, issue)
				logIssue(issue)
			}
		case tile.TagHMAP:
			hmap, err := tile.DecodeHmap(payload)
			if err != nil {
				issue := newIssue(fmt.Sprintf("HMAP decode failed: %v", err)).withPath(tilePath)
				issues = append(issues, issue)
				logIssue(issue)
				continue
			}
			issues = append(issues, validateHmap(hmap, expectedSpec, tilePath)...)
		case tile.TagWMAP:
			wmap, err := tile.DecodeWmap(payload)
			if err != nil {
				issue := newIssue(fmt.Sprintf("WMAP decode failed: %v", err)).withPath(tilePath)
				issues = append(issues, issue)
				logIssue(issue)
				continue
			}
			issues = append(issues, validateWmap(wmap, expectedSpec, tilePath)...)
		case tile.TagLIQD:
			liqd, err := tile.DecodeLiqd(payload)
			if err != nil {
				issue := newIssue(fmt.Sprintf("LIQD decode failed: %v", err)).withPath(tilePath)
				issues = append(issues, issue)
				logIssue(issue)
				continue
			}
			issues = append(issues, validateLiqd(liqd, expectedSpec, tilePath)...)
		case tile.TagPROP:
			prop, err := tile.DecodeProp(payload)
			if err != nil {
				issue := newIssue(fmt.Sprintf("PROP decode failed: %v", err)).withPath(tilePath)
				issues = append(issues, issue)
				logIssue(issue)
				continue
			}
			issues = append(issues, validateProp(prop, tilePath)...)
		}
	}

	return issues
}

func validateHmap(h tile.Hmap, spec manifest.WorldSpec, tilePath string) []Issue {
	var issues []Issue
	if h.Width != spec.HeightfieldSamples || h.Height != spec.HeightfieldSamples {
		issue := newIssue("HMAP dimensions do not match world spec").withPath(tilePath)
		issues = append(issues, issue)
		logIssue(issue)
	}
	for _, s := range h.Samples {
		if !isFinite32(s) || s < tile.HeightSampleMin || s > tile.HeightSampleMax {
			issue := newIssue("HMAP sample out of range").withPath(tilePath)
			issues = append(issues, issue)
			logIssue(issue)
			break
		}
	}
	return issues
}

func validateWmap(w tile.Wmap, spec manifest.WorldSpec, tilePath string) []Issue {
	var issues []Issue
	if w.Width != spec.WeightmapResolution || w.Height != spec.WeightmapResolution {
		issue := newIssue("WMAP dimensions do not match world spec").withPath(tilePath)
		issues = append(issues, issue)
		logIssue(issue)
	}
	return issues
}

func validateLiqd(l tile.Liqd, spec manifest.WorldSpec, tilePath string) []Issue {
	var issues []Issue
	if l.Width != spec.LiquidsResolution || l.Height != spec.LiquidsResolution {
		issue := newIssue("LIQD dimensions do not match world spec").withPath(tilePath)
		issues = append(issues, issue)
		logIssue(issue)
	}
	bodyCount := len(l.Bodies)
	if bodyCount > 0 {
		for _, idx := range l.Mask {
			if int(idx) >= bodyCount {
				issue := newIssue("LIQD mask references unknown body").withPath(tilePath)
				issues = append(issues, issue)
				logIssue(issue)
				break
			}
		}
	}
	for _, body := range l.Bodies {
		if !isFinite32(body.Height) || body.Height < tile.HeightSampleMin || body.Height > tile.HeightSampleMax {
			issue := newIssue("LIQD body height out of range").withPath(tilePath)
			issues = append(issues, issue)
			logIssue(issue)
			break
		}
	}
	return issues
}

func validateProp(p tile.Prop, tilePath string) []Issue {
	for _, inst := range p.Instances {
		for _, v := range inst.Translation {
			if !isFinite32(v) {
				issue := newIssue("PROP transform contains NaN/inf").withPath(tilePath)
				logIssue(issue)
				return []Issue{issue}
			}
		}
		for _, v := range inst.Rotation {
			if !isFinite32(v) {
				issue := newIssue("PROP transform contains NaN/inf").withPath(tilePath)
				logIssue(issue)
				return []Issue{issue}
			}
		}
		for _, v := range inst.Scale {
			if !isFinite32(v) {
				issue := newIssue("PROP transform contains NaN/inf").withPath(tilePath)
				logIssue(issue)
				return []Issue{issue}
			}
		}
	}
	return nil
}

func isFinite32(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
