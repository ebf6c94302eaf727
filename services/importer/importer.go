package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"studiobook/models"
	"studiobook/services/scheduling"
	"studiobook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationCreator is the slice of the scheduling service the importer
// needs: each confirmed row goes through the same transactional create path
// as any other booking.
type ReservationCreator interface {
	CreateReservation(ctx context.Context, input models.ReservationInput) (*models.Reservation, error)
}

// Service is the two-phase reconciliation importer. Prepare parses and
// stages; nothing touches the ledger until an operator has seen the
// candidate count and explicitly committed the plan. The gate is
// deliberate: the positional heuristics are fragile and mis-imports are
// costly.
type Service interface {
	PrepareImport(ctx context.Context, sheet io.Reader, targetDate string) (*models.ImportPlan, error)
	PrepareRows(ctx context.Context, rows []models.ImportRow, targetDate string) (*models.ImportPlan, error)
	CommitImport(ctx context.Context, token string) (*models.ImportResult, error)
}

// DefaultImportService is the production implementation.
type DefaultImportService struct {
	Scheduling ReservationCreator
	Plans      PlanStore
	Grid       []models.Slot
	Logger     *zap.Logger
}

// PrepareImport parses an xlsx sheet and stages the resulting plan.
func (s *DefaultImportService) PrepareImport(ctx context.Context, sheet io.Reader, targetDate string) (*models.ImportPlan, error) {
	rows, err := ParseSheet(sheet)
	if err != nil {
		return nil, err
	}
	return s.PrepareRows(ctx, rows, targetDate)
}

// PrepareRows validates rows against the grid and stages a plan for
// confirmation. Rows without a client name are empty grid cells, counted
// but never treated as errors.
func (s *DefaultImportService) PrepareRows(ctx context.Context, rows []models.ImportRow, targetDate string) (*models.ImportPlan, error) {
	if _, err := time.Parse(utils.DateFormat, targetDate); err != nil {
		return nil, fmt.Errorf("target date %q is not in %s form", targetDate, utils.DateFormat)
	}

	plan := &models.ImportPlan{
		Token:      uuid.New().String(),
		TargetDate: targetDate,
		CreatedAt:  time.Now(),
	}
	for _, row := range rows {
		if row.ClientName == "" {
			plan.SkippedEmpty++
			continue
		}
		slotIndex, ok := scheduling.MatchSlot(row.TimeLabel, s.Grid)
		if !ok {
			slotIndex = models.SlotUnresolved
		}
		plan.Candidates = append(plan.Candidates, models.CandidateRow{Row: row, SlotIndex: slotIndex})
	}

	if err := s.Plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	s.logger().Info("import plan staged",
		zap.String("token", plan.Token),
		zap.String("targetDate", targetDate),
		zap.Int("candidates", len(plan.Candidates)),
		zap.Int("skippedEmpty", plan.SkippedEmpty))
	return plan, nil
}

// CommitImport replays a confirmed plan through the ledger. Imported rows
// are created as confirmed: imported data is assumed already verified.
// Partial success is expected, not exceptional — every row lands either in
// Imported or in Skipped with its reason, so the operator can retry exactly
// the remainder.
func (s *DefaultImportService) CommitImport(ctx context.Context, token string) (*models.ImportResult, error) {
	plan, err := s.Plans.Load(ctx, token)
	if err != nil {
		return nil, err
	}

	result := &models.ImportResult{}
	for _, candidate := range plan.Candidates {
		input := models.ReservationInput{
			Date:       plan.TargetDate,
			RawTime:    candidate.Row.TimeLabel,
			ClientName: candidate.Row.ClientName,
			Contact:    candidate.Row.Contact,
			PackageID:  candidate.Row.PackageID,
			Payment:    candidate.Row.Payment,
			Status:     models.StatusConfirmed,
		}
		res, err := s.Scheduling.CreateReservation(ctx, input)
		if err != nil {
			result.Skipped = append(result.Skipped, models.RowError{
				SheetRow:   candidate.Row.SheetRow,
				ClientName: candidate.Row.ClientName,
				Reason:     importFailureReason(err),
			})
			continue
		}
		result.Imported = append(result.Imported, *res)
	}

	if err := s.Plans.Delete(ctx, token); err != nil {
		s.logger().Warn("failed to discard committed import plan",
			zap.String("token", token), zap.Error(err))
	}
	s.logger().Info("import committed",
		zap.String("token", token),
		zap.Int("imported", len(result.Imported)),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

func importFailureReason(err error) string {
	var taken *scheduling.SlotTakenError
	switch {
	case errors.As(err, &taken):
		return fmt.Sprintf("slot %d already taken", taken.SlotIndex)
	case errors.Is(err, scheduling.ErrDateBlocked):
		return "date is blocked for booking"
	default:
		return err.Error()
	}
}

func (s *DefaultImportService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.L()
}
