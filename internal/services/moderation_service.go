package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/metrics"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/bloodbridge/bloodbridge-backend/internal/textproc"
	"github.com/google/uuid"
)

type ModerationService struct {
	store store.Store
	text  *textproc.Processor
}

func NewModerationService(st store.Store, text *textproc.Processor) *ModerationService {
	return &ModerationService{store: st, text: text}
}

// Check screens free text written by users (chat questions, report reasons)
// and returns a ContentRejectedError for the first rule it breaks.
func (s *ModerationService) Check(text string) error {
	if r := screen(text); r != nil {
		return &ContentRejectedError{Reason: r.reason, Message: r.message}
	}
	return nil
}

// Block suspends an account. Blocking an already blocked account fails with
// ErrAlreadyBlocked, but its unblock requests are still reset to blocked.
func (s *ModerationService) Block(ctx context.Context, adminID uuid.UUID, req *dto.BlockRequest) (*models.BlockRecord, error) {
	var (
		record  *models.BlockRecord
		already bool
		from    models.Role
	)

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		account, err := tx.Accounts().GetForUpdate(ctx, req.UserID)
		if err != nil {
			return accountErr(err)
		}

		_, err = tx.Blocks().GetByUser(ctx, account.ID)
		switch {
		case err == nil:
			already = true
			_, err := tx.UnblockRequests().SetStatusByUser(ctx, account.ID, models.UnblockStatusBlocked)
			return err
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		if account.Role == models.RoleAdmin {
			return ErrCannotBlockAdmin
		}

		from = account.Role
		if from == models.RoleBlocked {
			from = models.RoleUser
		}
		record = &models.BlockRecord{
			UserID:          account.ID,
			Email:           account.Email,
			Name:            account.Name,
			RoleBeforeBlock: from,
			Reason:          s.text.Clean(req.Reason),
			BlockedBy:       adminID,
		}
		if err := tx.Blocks().Create(ctx, record); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrAlreadyBlocked
			}
			return err
		}

		account.Role = models.RoleBlocked
		if err := tx.Accounts().Update(ctx, account); err != nil {
			return err
		}

		return notify(ctx, tx, account.ID, models.NotificationBlock,
			"Your account has been blocked", record.Reason, &adminID)
	})
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrAlreadyBlocked
	}

	metrics.RoleTransitions.WithLabelValues(string(from), string(models.RoleBlocked)).Inc()
	slog.Info("user blocked", "user_id", req.UserID.String(), "action", "block", "admin_id", adminID.String())
	return record, nil
}

// Unblock restores the role held before the block and closes the user's
// unblock requests.
func (s *ModerationService) Unblock(ctx context.Context, adminID, userID uuid.UUID) (*models.Account, error) {
	var account *models.Account

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		record, err := tx.Blocks().GetByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotBlocked
			}
			return err
		}

		account, err = tx.Accounts().GetForUpdate(ctx, userID)
		if err != nil {
			return accountErr(err)
		}

		restored := record.RoleBeforeBlock
		if restored == "" || restored == models.RoleBlocked {
			restored = models.RoleUser
		}
		account.Role = restored
		if err := tx.Accounts().Update(ctx, account); err != nil {
			return err
		}
		if err := tx.Blocks().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if _, err := tx.UnblockRequests().SetStatusByUser(ctx, userID, models.UnblockStatusUnblocked); err != nil {
			return err
		}

		return notify(ctx, tx, userID, models.NotificationUnblock,
			"Your account has been unblocked", "You can use BloodBridge again.", &adminID)
	})
	if err != nil {
		return nil, err
	}

	metrics.RoleTransitions.WithLabelValues(string(models.RoleBlocked), string(account.Role)).Inc()
	slog.Info("user unblocked", "user_id", userID.String(), "action", "unblock", "admin_id", adminID.String())
	return account, nil
}

// ListBlocked returns every block record with the user's unblock requests.
func (s *ModerationService) ListBlocked(ctx context.Context) ([]dto.BlockRecordResponse, error) {
	records, err := s.store.Blocks().List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.BlockRecordResponse, 0, len(records))
	for _, r := range records {
		reqs, err := s.store.UnblockRequests().ListByUser(ctx, r.UserID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.BlockRecordResponse{BlockRecord: r, UnblockRequests: nonNil(reqs)})
	}
	return out, nil
}

func (s *ModerationService) ListUnblockRequests(ctx context.Context, status models.UnblockStatus) ([]models.UnblockRequest, error) {
	if status != "" && status != models.UnblockStatusBlocked && status != models.UnblockStatusUnblocked {
		return nil, fmt.Errorf("%w: must be blocked or unblocked", ErrInvalidStatus)
	}
	reqs, err := s.store.UnblockRequests().List(ctx, status)
	return nonNil(reqs), err
}

// BlockedStatus is the caller's own block record and requests.
func (s *ModerationService) BlockedStatus(ctx context.Context, userID uuid.UUID) (*dto.BlockRecordResponse, error) {
	return blockWithRequests(ctx, s.store, userID)
}

// SubmitUnblockRequest appends an appeal. Identical messages are kept as
// separate requests.
func (s *ModerationService) SubmitUnblockRequest(ctx context.Context, userID uuid.UUID, message string) (*models.UnblockRequest, error) {
	clean := s.text.Clean(message)
	if clean == "" {
		return nil, ErrEmptyMessage
	}

	var req *models.UnblockRequest
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		record, err := tx.Blocks().GetByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotBlocked
			}
			return err
		}
		req = &models.UnblockRequest{
			UserID:  userID,
			BlockID: record.ID,
			Message: clean,
			Status:  models.UnblockStatusBlocked,
		}
		return tx.UnblockRequests().Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("unblock request submitted", "user_id", userID.String(), "action", "unblock_request")
	return req, nil
}

func (s *ModerationService) CreateReport(ctx context.Context, reporterID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	if reporterID == req.ReportedID {
		return nil, ErrSelfAction
	}
	if err := s.Check(req.Reason); err != nil {
		return nil, err
	}
	if _, err := s.store.Accounts().Get(ctx, req.ReportedID); err != nil {
		return nil, accountErr(err)
	}

	report := &models.Report{
		ReporterID: reporterID,
		ReportedID: req.ReportedID,
		Reason:     s.text.Clean(req.Reason),
		Status:     models.ReportStatusPending,
	}
	if err := s.store.Reports().Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return report, nil
}

func (s *ModerationService) ListReports(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error) {
	reports, total, err := s.store.Reports().List(ctx, status, limit, offset)
	return nonNil(reports), total, err
}

func (s *ModerationService) ActionReport(ctx context.Context, reportID uuid.UUID, req *dto.ActionReportRequest) error {
	validStatuses := map[string]bool{
		models.ReportStatusReviewed:  true,
		models.ReportStatusActioned:  true,
		models.ReportStatusDismissed: true,
	}
	if !validStatuses[req.Status] {
		return fmt.Errorf("%w: must be reviewed, actioned, or dismissed", ErrInvalidStatus)
	}

	err := s.store.Reports().UpdateStatus(ctx, reportID, req.Status, s.text.Clean(req.AdminNote))
	if errors.Is(err, store.ErrNotFound) {
		return ErrReportNotFound
	}
	return err
}

func blockWithRequests(ctx context.Context, st store.Store, userID uuid.UUID) (*dto.BlockRecordResponse, error) {
	record, err := st.Blocks().GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotBlocked
		}
		return nil, err
	}
	reqs, err := st.UnblockRequests().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.BlockRecordResponse{BlockRecord: *record, UnblockRequests: nonNil(reqs)}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
