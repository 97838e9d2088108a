// Package quarantine relocates tile containers that fail validation out
// of a region's normal tiles directory, so a corrupt tile cannot silently
// keep participating in loads until it is repaired.
package quarantine

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fenwick-studio/worldstore/ids"
	"github.com/fenwick-studio/worldstore/layout"
	"github.com/sirupsen/logrus"
)

// seq is a process-wide monotonic counter seeded at zero, appended to the
// millisecond timestamp so two tiles quarantined within the same
// millisecond never collide on a destination directory.
var seq uint64

// nextSeq returns the next value of the monotonic counter.
func nextSeq() uint64 {
	return atomic.AddUint64(&seq, 1) - 1
}

// Move relocates a tile container at tile(region, tileID) into
// regions/_quarantine/<unixMs>-<seq>/<regionID>/x<X>_y<Y>.tile, creating
// any missing directories. unixMs is supplied by the caller rather than
// read from the wall clock here so quarantine moves stay deterministic
// under test.
func Move(world layout.World, regionID string, tileID ids.TileID, unixMs int64) (string, error) {
	region := world.Region(regionID)
	src := region.TilePath(tileID)

	dirName := fmt.Sprintf("%d-%d", unixMs, nextSeq())
	dest := filepath.Join(world.QuarantineDirPath(), dirName, regionID, tileID.FileName())

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create quarantine directory: %w", err)
	}
	if err := os.Rename(src, dest); err != nil {
		return "", fmt.Errorf("move %s into quarantine: %w", src, err)
	}

	logrus.WithFields(logrus.Fields{
		"region": regionID,
		"tile":   tileID.String(),
		"dest":   dest,
	}).Warn("quarantined tile")
	return dest, nil
}
