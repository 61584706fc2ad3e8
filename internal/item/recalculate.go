package item

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tripsplit/internal/metrics"
)

// Recalculate re-evaluates every pending item against the current electorate of its trip
// and returns how many items changed status. It runs on the caller's transaction so the
// eligibility change that triggered it and the resulting transitions commit together.
func (s *Service) Recalculate(ctx context.Context, rtx RecalcTx) (int, error) {
	pending, err := rtx.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pending items: %w", err)
	}

	metrics.RecalculationRuns.Inc()

	if len(pending) == 0 {
		slog.Debug("recalculate.skipped", "reason", "no_pending_items")
		return 0, nil
	}

	itemIDs := make([]uuid.UUID, len(pending))
	seen := make(map[uuid.UUID]struct{})

	var tripIDs []uuid.UUID

	for i, p := range pending {
		itemIDs[i] = p.ID

		if _, ok := seen[p.TripID]; ok {
			continue
		}

		seen[p.TripID] = struct{}{}
		tripIDs = append(tripIDs, p.TripID)
	}

	eligible, err := rtx.CountEligibleByTrip(ctx, tripIDs)
	if err != nil {
		return 0, fmt.Errorf("count eligible participants: %w", err)
	}

	for _, tripID := range tripIDs {
		if eligible[tripID] == 0 {
			slog.Warn("recalculate.no_electorate", "trip_id", tripID)
		}
	}

	counts, err := rtx.TallyVotes(ctx, itemIDs)
	if err != nil {
		return 0, fmt.Errorf("tally votes: %w", err)
	}

	var approve, reject []uuid.UUID

	for _, p := range pending {
		c := counts[p.ID]

		switch NewTally(c.Approvals, c.Rejections, eligible[p.TripID]).Decide() {
		case StatusApproved:
			approve = append(approve, p.ID)
		case StatusRejected:
			reject = append(reject, p.ID)
		}
	}

	changed := 0

	if len(approve) > 0 {
		n, err := rtx.UpdateStatuses(ctx, approve, StatusApproved)
		if err != nil {
			return 0, fmt.Errorf("approve items: %w", err)
		}

		changed += n
		metrics.ItemTransitions.WithLabelValues(string(StatusApproved), "recalculation").Add(float64(n))
	}

	if len(reject) > 0 {
		n, err := rtx.UpdateStatuses(ctx, reject, StatusRejected)
		if err != nil {
			return 0, fmt.Errorf("reject items: %w", err)
		}

		changed += n
		metrics.ItemTransitions.WithLabelValues(string(StatusRejected), "recalculation").Add(float64(n))
	}

	slog.Info("recalculate.done",
		"pending", len(pending),
		"trips", len(tripIDs),
		"approved", len(approve),
		"rejected", len(reject),
		"changed", changed,
	)

	return changed, nil
}

// RecalculateAll runs Recalculate in a transaction of its own.
func (s *Service) RecalculateAll(ctx context.Context) (int, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin recalculation: %w", err)
	}
	defer tx.Rollback()

	changed, err := s.Recalculate(ctx, tx)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit recalculation: %w", err)
	}

	return changed, nil
}
