package memory

import (
	"context"
	"sort"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/google/uuid"
)

type blockRepo struct{ s *Store }

func (r blockRepo) Create(ctx context.Context, b *models.BlockRecord) error {
	defer r.s.lock()()
	for _, existing := range r.s.t.blocks {
		if existing.UserID == b.UserID {
			return store.ErrConflict
		}
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = r.s.now()
	r.s.t.blocks = append(r.s.t.blocks, *b)
	return nil
}

func (r blockRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*models.BlockRecord, error) {
	defer r.s.lock()()
	for _, b := range r.s.t.blocks {
		if b.UserID == userID {
			b := b
			return &b, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r blockRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	defer r.s.lock()()
	before := len(r.s.t.blocks)
	r.s.t.blocks = filter(r.s.t.blocks, func(b models.BlockRecord) bool { return b.UserID != userID })
	if len(r.s.t.blocks) == before {
		return store.ErrNotFound
	}
	return nil
}

func (r blockRepo) List(ctx context.Context) ([]models.BlockRecord, error) {
	defer r.s.lock()()
	out := append([]models.BlockRecord(nil), r.s.t.blocks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r blockRepo) Count(ctx context.Context) (int64, error) {
	defer r.s.lock()()
	return int64(len(r.s.t.blocks)), nil
}

type unblockRequestRepo struct{ s *Store }

func (r unblockRequestRepo) Create(ctx context.Context, req *models.UnblockRequest) error {
	defer r.s.lock()()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	now := r.s.now()
	req.CreatedAt, req.UpdatedAt = now, now
	r.s.t.unblockRequests = append(r.s.t.unblockRequests, *req)
	return nil
}

func (r unblockRequestRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UnblockRequest, error) {
	defer r.s.lock()()
	return filter(r.s.t.unblockRequests, func(req models.UnblockRequest) bool { return req.UserID == userID }), nil
}

func (r unblockRequestRepo) List(ctx context.Context, status models.UnblockStatus) ([]models.UnblockRequest, error) {
	defer r.s.lock()()
	out := filter(r.s.t.unblockRequests, func(req models.UnblockRequest) bool {
		return status == "" || req.Status == status
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r unblockRequestRepo) SetStatusByUser(ctx context.Context, userID uuid.UUID, status models.UnblockStatus) (int64, error) {
	defer r.s.lock()()
	var n int64
	for i := range r.s.t.unblockRequests {
		if r.s.t.unblockRequests[i].UserID == userID {
			r.s.t.unblockRequests[i].Status = status
			r.s.t.unblockRequests[i].UpdatedAt = r.s.now()
			n++
		}
	}
	return n, nil
}

func (r unblockRequestRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	defer r.s.lock()()
	r.s.t.unblockRequests = filter(r.s.t.unblockRequests, func(req models.UnblockRequest) bool { return req.UserID != userID })
	return nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	defer r.s.lock()()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = r.s.now()
	r.s.t.notifications = append(r.s.t.notifications, *n)
	return nil
}

func (r notificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	defer r.s.lock()()
	out := filter(r.s.t.notifications, func(n models.Notification) bool {
		return n.UserID == userID && (!unreadOnly || !n.Read)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r notificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	defer r.s.lock()()
	for i := range r.s.t.notifications {
		if r.s.t.notifications[i].ID == id && r.s.t.notifications[i].UserID == userID {
			r.s.t.notifications[i].Read = true
			return nil
		}
	}
	return store.ErrNotFound
}

func (r notificationRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	defer r.s.lock()()
	before := len(r.s.t.notifications)
	r.s.t.notifications = filter(r.s.t.notifications, func(n models.Notification) bool {
		return n.ID != id || n.UserID != userID
	})
	if len(r.s.t.notifications) == before {
		return store.ErrNotFound
	}
	return nil
}

func (r notificationRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	defer r.s.lock()()
	r.s.t.notifications = filter(r.s.t.notifications, func(n models.Notification) bool { return n.UserID != userID })
	return nil
}

type reportRepo struct{ s *Store }

func (r reportRepo) Create(ctx context.Context, rep *models.Report) error {
	defer r.s.lock()()
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	if rep.Status == "" {
		rep.Status = models.ReportStatusPending
	}
	now := r.s.now()
	rep.CreatedAt, rep.UpdatedAt = now, now
	r.s.t.reports = append(r.s.t.reports, *rep)
	return nil
}

func (r reportRepo) List(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error) {
	defer r.s.lock()()
	matched := filter(r.s.t.reports, func(rep models.Report) bool { return status == "" || rep.Status == status })
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	from, to := page(limit, offset, len(matched))
	return matched[from:to], int64(len(matched)), nil
}

func (r reportRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status, note string) error {
	defer r.s.lock()()
	for i := range r.s.t.reports {
		if r.s.t.reports[i].ID == id {
			r.s.t.reports[i].Status = status
			r.s.t.reports[i].AdminNote = note
			r.s.t.reports[i].UpdatedAt = r.s.now()
			return nil
		}
	}
	return store.ErrNotFound
}

func (r reportRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	defer r.s.lock()()
	var n int64
	for _, rep := range r.s.t.reports {
		if rep.Status == status {
			n++
		}
	}
	return n, nil
}

func (r reportRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	defer r.s.lock()()
	r.s.t.reports = filter(r.s.t.reports, func(rep models.Report) bool {
		return rep.ReporterID != userID && rep.ReportedID != userID
	})
	return nil
}

type voteRepo struct{ s *Store }

func (r voteRepo) Create(ctx context.Context, v *models.DonorVote) error {
	defer r.s.lock()()
	for _, existing := range r.s.t.votes {
		if existing.VoterID == v.VoterID && existing.DonorID == v.DonorID {
			return store.ErrConflict
		}
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	now := r.s.now()
	v.CreatedAt, v.UpdatedAt = now, now
	r.s.t.votes = append(r.s.t.votes, *v)
	return nil
}

func (r voteRepo) Get(ctx context.Context, voterID, donorID uuid.UUID) (*models.DonorVote, error) {
	defer r.s.lock()()
	for _, v := range r.s.t.votes {
		if v.VoterID == voterID && v.DonorID == donorID {
			v := v
			return &v, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r voteRepo) Update(ctx context.Context, v *models.DonorVote) error {
	defer r.s.lock()()
	for i := range r.s.t.votes {
		if r.s.t.votes[i].ID == v.ID {
			v.UpdatedAt = r.s.now()
			r.s.t.votes[i] = *v
			return nil
		}
	}
	return store.ErrNotFound
}

func (r voteRepo) Delete(ctx context.Context, voterID, donorID uuid.UUID) error {
	defer r.s.lock()()
	before := len(r.s.t.votes)
	r.s.t.votes = filter(r.s.t.votes, func(v models.DonorVote) bool {
		return v.VoterID != voterID || v.DonorID != donorID
	})
	if len(r.s.t.votes) == before {
		return store.ErrNotFound
	}
	return nil
}

func (r voteRepo) Tally(ctx context.Context, donorID uuid.UUID) (store.VoteTally, error) {
	defer r.s.lock()()
	var tally store.VoteTally
	for _, v := range r.s.t.votes {
		if v.DonorID != donorID {
			continue
		}
		switch v.Vote {
		case models.VoteUp:
			tally.Up++
		case models.VoteDown:
			tally.Down++
		}
	}
	return tally, nil
}

func (r voteRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	defer r.s.lock()()
	r.s.t.votes = filter(r.s.t.votes, func(v models.DonorVote) bool {
		return v.VoterID != userID && v.DonorID != userID
	})
	return nil
}

type chatRepo struct{ s *Store }

func (r chatRepo) Create(ctx context.Context, m *models.ChatMessage) error {
	defer r.s.lock()()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.s.now()
	}
	r.s.t.chats = append(r.s.t.chats, *m)
	return nil
}

func (r chatRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	defer r.s.lock()()
	out := filter(r.s.t.chats, func(m models.ChatMessage) bool { return m.UserID == userID })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r chatRepo) CountUserMessagesSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	defer r.s.lock()()
	var n int64
	for _, m := range r.s.t.chats {
		if m.UserID == userID && m.Sender == models.ChatSenderUser && !m.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r chatRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	defer r.s.lock()()
	r.s.t.chats = filter(r.s.t.chats, func(m models.ChatMessage) bool { return m.UserID != userID })
	return nil
}
