package notifications

import (
	"context"
	"time"

	"github.com/Tiliavir/clockstorm/internal/options"
	"github.com/Tiliavir/clockstorm/internal/storage"
	"github.com/Tiliavir/clockstorm/internal/timecalc"
)

// Direction walks the newest-first Monday list used for week navigation.
type Direction int

const (
	// Previous moves to older weeks.
	Previous Direction = iota
	// Next moves to newer weeks.
	Next
)

// HasActiveInDirection reports whether any week beyond current, in the given
// direction, has an active reminder. mondays must be newest first, as
// returned by installation.EveryMondaySince.
func HasActiveInDirection(ctx context.Context, s storage.Store, mondays []timecalc.DateOnly, current int, dir Direction, opts options.Options, now time.Time) bool {
	step := 1
	if dir == Next {
		step = -1
	}
	for i := current + step; i >= 0 && i < len(mondays); i += step {
		if len(ForWeek(ctx, s, mondays[i], opts, now)) > 0 {
			return true
		}
	}
	return false
}
