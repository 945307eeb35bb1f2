package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/alexanderramin/slotter/internal/repository"
	"go.uber.org/zap"
)

// loadStatus reads and normalizes the status document of period. A missing
// document yields the default state; a corrupt one is replaced by the
// default state with a warning. healed counts collapsed history records.
func loadStatus(ctx context.Context, repo repository.StatusRepo, period string, logger *zap.Logger) (status *domain.PlanningStatus, healed int, err error) {
	status, err = repo.Load(ctx, period)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		status = domain.DefaultStatus()
	case errors.Is(err, repository.ErrCorruptStatus):
		logger.Warn("planning status unreadable, starting from the default state",
			zap.String("period", period), zap.Error(err))
		status = domain.DefaultStatus()
	default:
		return nil, 0, err
	}

	healed = status.Normalize()
	if healed > 0 {
		logger.Warn("collapsed duplicate round records in planning history",
			zap.String("period", period), zap.Int("collapsed", healed))
	}
	return status, healed, nil
}

var planningErrorCodes = []struct {
	err  error
	code app.PlanningErrorCode
}{
	{domain.ErrInvalidRound, app.PlanningErrInvalidRound},
	{domain.ErrRoundNotActive, app.PlanningErrRoundNotActive},
	{domain.ErrRoundCompleted, app.PlanningErrRoundCompleted},
	{domain.ErrRoundNotReached, app.PlanningErrRoundNotReached},
	{domain.ErrLaterRoundPlanned, app.PlanningErrLaterRoundPlanned},
	{domain.ErrNoManualEntry, app.PlanningErrNoManualEntry},
	{domain.ErrAlreadyResolved, app.PlanningErrAlreadyResolved},
	{domain.ErrDuplicateSlot, app.PlanningErrDuplicateSlot},
}

// planningError converts state machine rejections into *app.PlanningError.
// Other errors pass through unchanged.
func planningError(err error, format string, args ...any) error {
	for _, pe := range planningErrorCodes {
		if errors.Is(err, pe.err) {
			msg := pe.err.Error()
			if format != "" {
				msg = fmt.Sprintf(format, args...) + ": " + msg
			}
			return &app.PlanningError{Code: pe.code, Message: msg}
		}
	}
	return err
}

func nowOr(t *time.Time) time.Time {
	if t != nil {
		return t.UTC()
	}
	return time.Now().UTC()
}
