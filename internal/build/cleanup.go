package build

import (
	"context"
	"log/slog"
	"maps"
	"slices"
)

// Removes the state record, then stops and removes pipeline containers.
//
// Containers are selected by the filter against their name or id. Returns
// the number of containers removed.
func (b *Builder) Cleanup(ctx context.Context) (int, error) {
	if err := b.store.Remove(); err != nil {
		return 0, err
	}

	containers, err := b.drv.Containers(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range slices.Sorted(maps.Keys(containers)) {
		if !matches(b.opts.Filter, name, containers[name]) {
			continue
		}
		if err := b.teardown(ctx, name); err != nil {
			return removed, err
		}
		slog.Debug("container cleaned up", "name", name)
		removed++
	}
	return removed, nil
}
