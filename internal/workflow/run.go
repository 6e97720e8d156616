// internal/workflow/run.go
package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"guidance/internal/artifact"
	"guidance/internal/dispatch"
)

// Run dispatches every task of p. When no task failed, intermediates are
// then kept, compressed or deleted according to status.
func Run(ctx context.Context, d *dispatch.Dispatcher, p *Plan, status artifact.FinalStatus, log *zap.Logger) (*dispatch.Report, error) {
	rep, err := d.Run(ctx, p.Tasks)
	if err != nil {
		return nil, err
	}
	if rep.Err() != nil || ctx.Err() != nil || status == artifact.Keep {
		return rep, nil
	}
	if err := FinalizeIntermediates(p, status, log); err != nil {
		return rep, err
	}
	return rep, nil
}

// FinalizeIntermediates applies status to every intermediate artifact of p.
func FinalizeIntermediates(p *Plan, status artifact.FinalStatus, log *zap.Logger) error {
	var errs []error
	seen := make(map[artifact.ID]bool)
	n := 0
	for _, a := range p.Artifacts(true) {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		if !artifact.Exists(a.Path()) {
			continue
		}
		where, err := artifact.Finalize(a.Path(), status)
		if err != nil {
			errs = append(errs, fmt.Errorf("finalize %s: %w", a.ID, err))
			continue
		}
		if where != a.Path() {
			n++
		}
	}
	log.Info("intermediates finalized", zap.String("policy", string(status)), zap.Int("changed", n))
	return errors.Join(errs...)
}
