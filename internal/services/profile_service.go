package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/eligibility"
	"github.com/bloodbridge/bloodbridge-backend/internal/metrics"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/google/uuid"
)

type ProfileService struct {
	store store.Store
	now   func() time.Time
}

func NewProfileService(st store.Store) *ProfileService {
	return &ProfileService{store: st, now: time.Now}
}

// GetProfile returns the account, its resolved variant and, when present,
// the donor record and block record.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	return buildProfile(ctx, s.store, userID, s.now())
}

// EditProfile applies a partial update. A non-empty route variant must match
// the caller's resolved variant.
func (s *ProfileService) EditProfile(ctx context.Context, userID uuid.UUID, route eligibility.Variant, req *dto.EditProfileRequest) (*dto.ProfileResponse, error) {
	now := s.now()
	var profile *dto.ProfileResponse

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		account, err := tx.Accounts().GetForUpdate(ctx, userID)
		if err != nil {
			return accountErr(err)
		}

		current := eligibility.Resolve(eligibility.SnapshotOf(account))
		if route != "" && route != current {
			return ErrVariantMismatch
		}
		if req.Donor != nil && current != eligibility.VariantDonor && current != eligibility.VariantDonateLater {
			return ErrDonorFieldsNotAllowed
		}

		if req.Name != nil {
			account.Name = strings.TrimSpace(*req.Name)
		}
		if req.Phone != nil {
			account.Phone = strings.TrimSpace(*req.Phone)
		}

		dobChanged := false
		if req.DateOfBirth != nil {
			dob, err := parseDate(*req.DateOfBirth)
			if err != nil {
				return err
			}
			dobChanged = !dob.Equal(account.DateOfBirth)
			account.DateOfBirth = dob
		}

		if account.Role == models.RoleDonor {
			if req.SignupReason != nil {
				return ErrReasonChangeForbidden
			}
			account.CurrentAge = eligibility.AgeAt(account.DateOfBirth, now)
		} else if req.SignupReason != nil || dobChanged {
			declared := account.SignupReason
			if req.SignupReason != nil {
				declared = models.SignupReason(*req.SignupReason)
			}
			if declared == models.ReasonNone {
				declared = models.ReasonDonateLater
			}
			assessed, err := eligibility.Normalize(declared, account.DateOfBirth, now)
			if err != nil {
				return err
			}
			assessed.Apply(account)
		}

		if err := tx.Accounts().Update(ctx, account); err != nil {
			return err
		}

		if req.Donor != nil || dobChanged {
			if err := syncDonor(ctx, tx, account, req.Donor, false); err != nil {
				return err
			}
		}

		profile, err = buildProfile(ctx, tx, userID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("profile edited", "user_id", userID.String(), "action", "edit_profile", "variant", profile.Variant)
	return profile, nil
}

// UpgradeToDonor turns an eligible user into a donor. Eligibility is
// re-assessed from the date of birth first, and that refresh is kept even
// when the upgrade is refused.
func (s *ProfileService) UpgradeToDonor(ctx context.Context, userID uuid.UUID, req *dto.UpgradeRequest) (*dto.ProfileResponse, error) {
	now := s.now()
	var (
		profile *dto.ProfileResponse
		refused *EligibilityError
	)

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		account, err := tx.Accounts().GetForUpdate(ctx, userID)
		if err != nil {
			return accountErr(err)
		}
		if account.Role == models.RoleDonor {
			return ErrAlreadyDonor
		}

		declared := account.SignupReason
		if declared == models.ReasonNone {
			declared = models.ReasonDonateLater
		}
		assessed, err := eligibility.Normalize(declared, account.DateOfBirth, now)
		if err != nil {
			return err
		}
		assessed.Apply(account)

		eligible := account.CanUpdateToDonor &&
			(account.ProfileUpdatableAt == nil || !now.Before(*account.ProfileUpdatableAt))
		if !eligible {
			refused = &EligibilityError{Reason: account.SignupReason, UpdatableAt: account.ProfileUpdatableAt}
			return tx.Accounts().Update(ctx, account)
		}

		var patch *dto.DonorPatch
		if req != nil {
			patch = req.Donor
		}
		if err := syncDonor(ctx, tx, account, patch, true); err != nil {
			return err
		}

		from := account.Role
		account.Role = models.RoleDonor
		account.SignupReason = models.ReasonNone
		account.CanUpdateToDonor = false
		account.ProfileUpdatableAt = nil
		if err := tx.Accounts().Update(ctx, account); err != nil {
			return err
		}
		metrics.RoleTransitions.WithLabelValues(string(from), string(models.RoleDonor)).Inc()

		profile, err = buildProfile(ctx, tx, userID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	if refused != nil {
		return nil, refused
	}

	slog.Info("user upgraded to donor", "user_id", userID.String(), "action", "upgrade_to_donor")
	return profile, nil
}

// syncDonor upserts the donor record of account. Creating one needs every
// required attribute; a nil patch only refreshes the date of birth. With
// required set a missing record and a nil patch is an error.
func syncDonor(ctx context.Context, tx store.Store, account *models.Account, patch *dto.DonorPatch, required bool) error {
	donor, err := tx.Donors().GetByUser(ctx, account.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if patch == nil {
			if required {
				return ErrIncompleteDonorData
			}
			return nil
		}
		fields, ok := patch.Complete()
		if !ok {
			return ErrIncompleteDonorData
		}
		return tx.Donors().Create(ctx, newDonor(account, fields))
	case err != nil:
		return err
	}

	donor.DateOfBirth = account.DateOfBirth
	if patch != nil {
		patch.ApplyTo(donor)
	}
	return tx.Donors().Update(ctx, donor)
}

func buildProfile(ctx context.Context, st store.Store, userID uuid.UUID, now time.Time) (*dto.ProfileResponse, error) {
	account, err := st.Accounts().Get(ctx, userID)
	if err != nil {
		return nil, accountErr(err)
	}

	profile := &dto.ProfileResponse{
		User:    account,
		Variant: string(eligibility.Resolve(eligibility.SnapshotOf(account))),
	}

	donor, err := st.Donors().GetByUser(ctx, userID)
	switch {
	case err == nil:
		resp := dto.NewDonorResponse(donor, now)
		profile.Donor = &resp
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	if account.Role == models.RoleBlocked {
		block, err := blockWithRequests(ctx, st, userID)
		if err != nil && !errors.Is(err, ErrNotBlocked) {
			return nil, err
		}
		profile.Block = block
	}
	return profile, nil
}

func accountErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrAccountNotFound
	}
	return err
}
