package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/bloodbridge/bloodbridge-backend/internal/textproc"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type AdminService struct {
	store  store.Store
	mailer Mailer
	text   *textproc.Processor
}

func NewAdminService(st store.Store, mailer Mailer, text *textproc.Processor) *AdminService {
	return &AdminService{store: st, mailer: mailer, text: text}
}

// Warn sends a warning notification and e-mails it. A failed e-mail is
// logged and does not fail the warning.
func (s *AdminService) Warn(ctx context.Context, adminID uuid.UUID, req *dto.WarnRequest) (*models.Notification, error) {
	account, err := s.store.Accounts().Get(ctx, req.UserID)
	if err != nil {
		return nil, accountErr(err)
	}

	n := &models.Notification{
		UserID:   account.ID,
		Kind:     models.NotificationWarning,
		Title:    "Warning from the BloodBridge team",
		Message:  s.text.Clean(req.Message),
		SenderID: &adminID,
	}
	if err := s.store.Notifications().Create(ctx, n); err != nil {
		return nil, err
	}

	if err := s.mailer.Send(ctx, account.Email, account.Name, n.Title, n.Message); err != nil {
		slog.Error("failed to send warning e-mail", "user_id", account.ID.String(), "action", "warn", "error", err)
	}

	slog.Info("user warned", "user_id", account.ID.String(), "action", "warn", "admin_id", adminID.String())
	return n, nil
}

func (s *AdminService) ListAccounts(ctx context.Context, role models.Role, limit, offset int) ([]models.Account, int64, error) {
	accounts, total, err := s.store.Accounts().List(ctx, store.AccountFilter{Role: role, Limit: limit, Offset: offset})
	return nonNil(accounts), total, err
}

// DeleteAccount removes an account and every record that points at it.
func (s *AdminService) DeleteAccount(ctx context.Context, adminID, userID uuid.UUID) error {
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		account, err := tx.Accounts().GetForUpdate(ctx, userID)
		if err != nil {
			return accountErr(err)
		}
		if account.Role == models.RoleAdmin {
			return ErrCannotDeleteAdmin
		}

		cleanups := []func(context.Context, uuid.UUID) error{
			tx.Donors().DeleteByUser,
			tx.UnblockRequests().DeleteByUser,
			tx.Notifications().DeleteByUser,
			tx.Reports().DeleteByUser,
			tx.Votes().DeleteByUser,
			tx.Chats().DeleteByUser,
		}
		for _, cleanup := range cleanups {
			if err := cleanup(ctx, userID); err != nil {
				return err
			}
		}
		if err := tx.Blocks().DeleteByUser(ctx, userID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.Accounts().Delete(ctx, userID)
	})
	if err != nil {
		return err
	}

	slog.Info("account deleted", "user_id", userID.String(), "action", "delete_account", "admin_id", adminID.String())
	return nil
}

// Stats collects the dashboard counters concurrently.
func (s *AdminService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	var stats dto.StatsResponse
	g, ctx := errgroup.WithContext(ctx)

	countRole := func(role models.Role, dst *int64) {
		g.Go(func() error {
			n, err := s.store.Accounts().CountByRole(ctx, role)
			*dst = n
			return err
		})
	}
	countRole(models.RoleUser, &stats.Users)
	countRole(models.RoleDonor, &stats.Donors)
	countRole(models.RoleAdmin, &stats.Admins)
	countRole(models.RoleBlocked, &stats.Blocked)

	g.Go(func() error {
		n, err := s.store.Blocks().Count(ctx)
		stats.BlockRecords = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.Reports().CountByStatus(ctx, models.ReportStatusPending)
		stats.PendingReports = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
