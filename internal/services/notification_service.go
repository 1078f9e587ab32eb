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

type NotificationService struct {
	store      store.Store
	moderation *ModerationService
	text       *textproc.Processor
}

func NewNotificationService(st store.Store, moderation *ModerationService, text *textproc.Processor) *NotificationService {
	return &NotificationService{store: st, moderation: moderation, text: text}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	list, err := s.store.Notifications().ListByUser(ctx, userID, unreadOnly)
	return nonNil(list), err
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	err := s.store.Notifications().MarkRead(ctx, id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *NotificationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.store.Notifications().Delete(ctx, id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

// SendThanks notifies a donor that someone is grateful. The target must
// currently hold the donor role.
func (s *NotificationService) SendThanks(ctx context.Context, senderID uuid.UUID, req *dto.ThanksRequest) (*models.Notification, error) {
	if senderID == req.DonorID {
		return nil, ErrSelfAction
	}
	if err := s.moderation.Check(req.Message); err != nil {
		return nil, err
	}

	donor, err := s.store.Accounts().Get(ctx, req.DonorID)
	if err != nil || donor.Role != models.RoleDonor {
		if err == nil || errors.Is(err, store.ErrNotFound) {
			return nil, ErrDonorNotFound
		}
		return nil, err
	}
	sender, err := s.store.Accounts().Get(ctx, senderID)
	if err != nil {
		return nil, accountErr(err)
	}

	n := &models.Notification{
		UserID:   donor.ID,
		Kind:     models.NotificationThanks,
		Title:    "Thank you from " + sender.Name,
		Message:  s.text.Clean(req.Message),
		SenderID: &senderID,
	}
	if err := s.store.Notifications().Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func notify(ctx context.Context, st store.Store, userID uuid.UUID, kind, title, message string, sender *uuid.UUID) error {
	return st.Notifications().Create(ctx, &models.Notification{
		UserID:   userID,
		Kind:     kind,
		Title:    title,
		Message:  message,
		SenderID: sender,
	})
}
