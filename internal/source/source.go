// Package source pulls the current week's timesheet from upstream systems
// and caches it in the local store.
package source

import (
	"context"
	"errors"

	"github.com/Tiliavir/clockstorm/internal/model"
)

// ErrNotConfigured is returned when no timesheet API has been configured.
var ErrNotConfigured = errors.New("timesheet source is not configured")

// Source yields the week currently shown upstream. A nil sheet with a nil
// error means there is nothing to report this cycle.
type Source interface {
	QueryTimeSheet(ctx context.Context) (*model.TimeSheet, error)
}
