package model

import (
	"fmt"

	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
)

// ProgressUpdate carries an administrative change to an order. Nil fields are left untouched.
type ProgressUpdate struct {
	Status        *OrderStatus
	Stage         *ProgressStage
	Progress      *int
	ClientNotes   *string
	InternalNotes *string
}

func (u ProgressUpdate) touchesLifecycle() bool {
	return u.Status != nil || u.Stage != nil || u.Progress != nil
}

// ApplyProgress validates and applies an administrative update in place.
// The order is left unchanged when an error is returned.
func (o *Order) ApplyProgress(u ProgressUpdate) error {
	if o.Status == OrderStatusPending {
		return fmt.Errorf("%w: order %d is awaiting payment", domainErrors.ErrInvalidTransition, o.ID)
	}

	if o.Status == OrderStatusCompleted && u.touchesLifecycle() {
		return fmt.Errorf("%w: order %d is completed", domainErrors.ErrInvalidTransition, o.ID)
	}

	status, stage, progress := o.Status, o.ProgressStage, o.Progress

	if u.Status != nil {
		if !u.Status.Valid() || !status.CanTransitionTo(*u.Status) {
			return fmt.Errorf("%w: status %s -> %s", domainErrors.ErrInvalidTransition, status, *u.Status)
		}
		status = *u.Status
	}
	if u.Stage != nil {
		if !u.Stage.Valid() || !stage.CanAdvanceTo(*u.Stage) {
			return fmt.Errorf("%w: stage %s -> %s", domainErrors.ErrInvalidTransition, stage, *u.Stage)
		}
		stage = *u.Stage
	}
	if u.Progress != nil {
		if *u.Progress < 0 || *u.Progress > 100 || *u.Progress < progress {
			return fmt.Errorf("%w: progress %d -> %d", domainErrors.ErrInvalidTransition, progress, *u.Progress)
		}
		progress = *u.Progress
	}

	if status == OrderStatusCompleted {
		stage = StageLaunch
		progress = 100
	}

	if stage.Threshold() > progress {
		return fmt.Errorf("%w: stage %s requires progress %d", domainErrors.ErrInvalidTransition, stage, stage.Threshold())
	}

	o.Status, o.ProgressStage, o.Progress = status, stage, progress
	if u.ClientNotes != nil {
		o.ClientNotes = *u.ClientNotes
	}
	if u.InternalNotes != nil {
		o.InternalNotes = *u.InternalNotes
	}
	return nil
}
