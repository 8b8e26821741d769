package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/printdesk/labelpress/internal/core/domain"
)

// MergeBulk splits a two-up label sheet into per-order halves, groups the
// slip document into per-order page runs, and merges every matched pair.
// Independent pairs run on a bounded worker pool; one bad pair never
// aborts the batch. Unmatched slip groups, unmatched label halves and
// duplicate halves for an already-claimed order are all reported as
// failures, never silently dropped.
func (p *MergePipeline) MergeBulk(ctx context.Context, labelSheet, slipSheet []byte) (*domain.BulkOutcome, error) {
	halves, err := p.labels.Extract(ctx, labelSheet)
	if err != nil {
		return nil, fmt.Errorf("extract label halves: %w", err)
	}
	groups, err := p.slips.Group(ctx, slipSheet)
	if err != nil {
		return nil, fmt.Errorf("group slip pages: %w", err)
	}

	// First half per order id wins; later halves with the same id are
	// reported below, not silently replaced or dropped.
	chosen := make(map[string]int, len(halves))
	for i, h := range halves {
		if _, dup := chosen[h.OrderID]; !dup {
			chosen[h.OrderID] = i
		}
	}

	type slot struct {
		result  *domain.MergeResult
		failure *domain.BulkFailure
	}
	slots := make([]slot, len(groups))
	matched := make(map[string]bool, len(groups))

	var wg sync.WaitGroup
	sem := make(chan struct{}, p.parallelism)

	for i, group := range groups {
		halfIdx, ok := chosen[group.OrderID]
		if !ok {
			err := domain.WrapError(domain.ErrReconciliation, "pair slip with label half",
				fmt.Errorf("no extracted half for order %s", group.OrderID))
			slots[i] = slot{failure: &domain.BulkFailure{OrderID: group.OrderID, Reason: err.Error()}}
			continue
		}
		matched[group.OrderID] = true

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, group domain.SlipGroup, half domain.ExtractedHalf) {
			defer wg.Done()
			defer func() { <-sem }()

			opts := &domain.MergeOptions{ForceBulk: true, Position: half.Position}
			result, err := p.MergeOne(ctx, half.Document, group.Document, opts)
			if err != nil {
				slots[i] = slot{failure: &domain.BulkFailure{OrderID: group.OrderID, Reason: err.Error()}}
				return
			}
			slots[i] = slot{result: result}
		}(i, group, halves[halfIdx])
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome := &domain.BulkOutcome{}
	for _, s := range slots {
		switch {
		case s.result != nil:
			outcome.Results = append(outcome.Results, *s.result)
		case s.failure != nil:
			outcome.Failures = append(outcome.Failures, *s.failure)
		}
	}
	for i, h := range halves {
		switch {
		case chosen[h.OrderID] != i:
			outcome.Failures = append(outcome.Failures, domain.BulkFailure{
				OrderID: h.OrderID,
				Reason:  fmt.Sprintf("duplicate label half (%s) for an order already claimed by an earlier half", h.Position),
			})
		case !matched[h.OrderID]:
			outcome.Failures = append(outcome.Failures, domain.BulkFailure{
				OrderID: h.OrderID,
				Reason:  fmt.Sprintf("label half (%s) has no slip pages", h.Position),
			})
		}
	}
	return outcome, nil
}
