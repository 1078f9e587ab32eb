package services

import (
	"context"
	"errors"

	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/bloodbridge/bloodbridge-backend/internal/textproc"
	"github.com/google/uuid"
)

// VoteService manages the up/down ratings accounts leave on donors.
type VoteService struct {
	store      store.Store
	moderation *ModerationService
	text       *textproc.Processor
}

func NewVoteService(st store.Store, moderation *ModerationService, text *textproc.Processor) *VoteService {
	return &VoteService{store: st, moderation: moderation, text: text}
}

func (s *VoteService) Summary(ctx context.Context, voterID, donorID uuid.UUID) (*dto.VoteSummary, error) {
	tally, err := s.store.Votes().Tally(ctx, donorID)
	if err != nil {
		return nil, err
	}
	summary := &dto.VoteSummary{DonorID: donorID, Tally: tally}

	mine, err := s.store.Votes().Get(ctx, voterID, donorID)
	switch {
	case err == nil:
		summary.Mine = mine
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}
	return summary, nil
}

func (s *VoteService) Cast(ctx context.Context, voterID uuid.UUID, req *dto.VoteRequest) (*models.DonorVote, error) {
	if err := s.checkTarget(ctx, voterID, req); err != nil {
		return nil, err
	}

	vote := &models.DonorVote{
		VoterID: voterID,
		DonorID: req.DonorID,
		Vote:    req.Vote,
		Comment: s.text.Clean(req.Comment),
	}
	if err := s.store.Votes().Create(ctx, vote); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrAlreadyVoted
		}
		return nil, err
	}
	return vote, nil
}

func (s *VoteService) Change(ctx context.Context, voterID uuid.UUID, req *dto.VoteRequest) (*models.DonorVote, error) {
	if err := s.moderation.Check(req.Comment); err != nil {
		return nil, err
	}
	vote, err := s.store.Votes().Get(ctx, voterID, req.DonorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrVoteNotFound
		}
		return nil, err
	}

	vote.Vote = req.Vote
	vote.Comment = s.text.Clean(req.Comment)
	if err := s.store.Votes().Update(ctx, vote); err != nil {
		return nil, err
	}
	return vote, nil
}

func (s *VoteService) Delete(ctx context.Context, voterID, donorID uuid.UUID) error {
	err := s.store.Votes().Delete(ctx, voterID, donorID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrVoteNotFound
	}
	return err
}

func (s *VoteService) checkTarget(ctx context.Context, voterID uuid.UUID, req *dto.VoteRequest) error {
	if voterID == req.DonorID {
		return ErrSelfAction
	}
	if err := s.moderation.Check(req.Comment); err != nil {
		return err
	}
	donor, err := s.store.Accounts().Get(ctx, req.DonorID)
	if err != nil {
		return donorErr(err)
	}
	if donor.Role != models.RoleDonor {
		return ErrDonorNotFound
	}
	return nil
}
