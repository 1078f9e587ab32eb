package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/google/uuid"
)

type DonorService struct {
	store store.Store
	now   func() time.Time
}

func NewDonorService(st store.Store) *DonorService {
	return &DonorService{store: st, now: time.Now}
}

// GetDonorData returns the caller's own donor record.
func (s *DonorService) GetDonorData(ctx context.Context, userID uuid.UUID) (*dto.DonorResponse, error) {
	donor, err := s.store.Donors().GetByUser(ctx, userID)
	if err != nil {
		return nil, donorErr(err)
	}
	resp := dto.NewDonorResponse(donor, s.now())
	return &resp, nil
}

// UpdateDonorData patches the caller's donor record. Only donors may do this.
func (s *DonorService) UpdateDonorData(ctx context.Context, userID uuid.UUID, patch *dto.DonorPatch) (*dto.DonorResponse, error) {
	var resp dto.DonorResponse
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		account, err := tx.Accounts().GetForUpdate(ctx, userID)
		if err != nil {
			return accountErr(err)
		}
		if account.Role != models.RoleDonor {
			return ErrNotADonor
		}
		donor, err := tx.Donors().GetByUser(ctx, userID)
		if err != nil {
			return donorErr(err)
		}
		patch.ApplyTo(donor)
		if err := tx.Donors().Update(ctx, donor); err != nil {
			return err
		}
		resp = dto.NewDonorResponse(donor, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search lists donors matching the filter. Blocked donors never appear.
func (s *DonorService) Search(ctx context.Context, f store.DonorFilter) ([]dto.DonorResponse, int64, error) {
	donors, total, err := s.store.Donors().Search(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	out := make([]dto.DonorResponse, 0, len(donors))
	for i := range donors {
		out = append(out, dto.NewDonorResponse(&donors[i], now))
	}
	return out, total, nil
}

// GetDonor returns one donor by account id with its vote tally.
func (s *DonorService) GetDonor(ctx context.Context, accountID uuid.UUID) (*dto.DonorResponse, error) {
	donor, err := s.store.Donors().GetByUser(ctx, accountID)
	if err != nil {
		return nil, donorErr(err)
	}
	if donor.Account.Role != models.RoleDonor {
		return nil, ErrDonorNotFound
	}
	tally, err := s.store.Votes().Tally(ctx, accountID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewDonorResponse(donor, s.now())
	resp.Votes = &tally
	return &resp, nil
}

func (s *DonorService) GetSchedule(ctx context.Context, userID uuid.UUID) (*dto.ScheduleResponse, error) {
	donor, err := s.store.Donors().GetByUser(ctx, userID)
	if err != nil {
		return nil, donorErr(err)
	}
	return scheduleOf(donor), nil
}

// SetSchedule marks the donor unavailable until availableFrom.
func (s *DonorService) SetSchedule(ctx context.Context, userID uuid.UUID, availableFrom string) (*dto.ScheduleResponse, error) {
	from, err := parseDate(availableFrom)
	if err != nil {
		return nil, err
	}
	if !from.After(s.now()) {
		return nil, ErrScheduleInPast
	}
	return s.updateSchedule(ctx, userID, false, &from)
}

// ClearSchedule makes the donor available right away.
func (s *DonorService) ClearSchedule(ctx context.Context, userID uuid.UUID) (*dto.ScheduleResponse, error) {
	return s.updateSchedule(ctx, userID, true, nil)
}

func (s *DonorService) updateSchedule(ctx context.Context, userID uuid.UUID, available bool, from *time.Time) (*dto.ScheduleResponse, error) {
	var resp *dto.ScheduleResponse
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		account, err := tx.Accounts().GetForUpdate(ctx, userID)
		if err != nil {
			return accountErr(err)
		}
		if account.Role != models.RoleDonor {
			return ErrNotADonor
		}
		donor, err := tx.Donors().GetByUser(ctx, userID)
		if err != nil {
			return donorErr(err)
		}
		donor.IsAvailable = &available
		donor.AvailableFrom = from
		if err := tx.Donors().Update(ctx, donor); err != nil {
			return err
		}
		resp = scheduleOf(donor)
		return nil
	})
	return resp, err
}

// ReleaseDueAvailability makes donors whose scheduled date has passed
// available again.
func (s *DonorService) ReleaseDueAvailability(ctx context.Context) (int64, error) {
	n, err := s.store.Donors().ReleaseDue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("donor availability released", "action", "release_availability", "count", n)
	}
	return n, nil
}

func scheduleOf(d *models.Donor) *dto.ScheduleResponse {
	return &dto.ScheduleResponse{
		IsAvailable:   d.IsAvailable == nil || *d.IsAvailable,
		AvailableFrom: d.AvailableFrom,
	}
}

func donorErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrDonorNotFound
	}
	return err
}
