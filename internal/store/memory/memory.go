// Package memory is an in-process store.Store. It backs the service and
// handler tests and local runs without PostgreSQL.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/google/uuid"
)

type tables struct {
	accounts        []models.Account
	donors          []models.Donor
	blocks          []models.BlockRecord
	unblockRequests []models.UnblockRequest
	notifications   []models.Notification
	reports         []models.Report
	votes           []models.DonorVote
	chats           []models.ChatMessage
}

func (t *tables) clone() tables {
	return tables{
		accounts:        append([]models.Account(nil), t.accounts...),
		donors:          append([]models.Donor(nil), t.donors...),
		blocks:          append([]models.BlockRecord(nil), t.blocks...),
		unblockRequests: append([]models.UnblockRequest(nil), t.unblockRequests...),
		notifications:   append([]models.Notification(nil), t.notifications...),
		reports:         append([]models.Report(nil), t.reports...),
		votes:           append([]models.DonorVote(nil), t.votes...),
		chats:           append([]models.ChatMessage(nil), t.chats...),
	}
}

// Store keeps every table behind one mutex. A transaction holds the mutex for
// its whole duration and restores a snapshot when fn fails.
type Store struct {
	mu   *sync.Mutex
	t    *tables
	inTx bool
	now  func() time.Time
}

func New() *Store {
	return &Store{mu: &sync.Mutex{}, t: &tables{}, now: time.Now}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Accounts() store.AccountRepository               { return accountRepo{s} }
func (s *Store) Donors() store.DonorRepository                   { return donorRepo{s} }
func (s *Store) Blocks() store.BlockRepository                   { return blockRepo{s} }
func (s *Store) UnblockRequests() store.UnblockRequestRepository { return unblockRequestRepo{s} }
func (s *Store) Notifications() store.NotificationRepository     { return notificationRepo{s} }
func (s *Store) Reports() store.ReportRepository                 { return reportRepo{s} }
func (s *Store) Votes() store.VoteRepository                     { return voteRepo{s} }
func (s *Store) Chats() store.ChatRepository                     { return chatRepo{s} }

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock := s.lock()
	defer unlock()

	snapshot := s.t.clone()
	tx := &Store{mu: s.mu, t: s.t, inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		*s.t = snapshot
		return err
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func page(limit, offset, n int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := offset + limit
	if end > n {
		end = n
	}
	return offset, end
}

type accountRepo struct{ s *Store }

func (r accountRepo) Create(ctx context.Context, a *models.Account) error {
	defer r.s.lock()()
	for _, existing := range r.s.t.accounts {
		if strings.EqualFold(existing.Email, a.Email) || existing.ID == a.ID {
			return store.ErrConflict
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := r.s.now()
	a.CreatedAt, a.UpdatedAt = now, now
	r.s.t.accounts = append(r.s.t.accounts, *a)
	return nil
}

func (r accountRepo) Get(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	defer r.s.lock()()
	return r.s.account(id)
}

func (r accountRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return r.Get(ctx, id)
}

func (r accountRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	defer r.s.lock()()
	for _, a := range r.s.t.accounts {
		if strings.EqualFold(a.Email, email) {
			a := a
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r accountRepo) Update(ctx context.Context, a *models.Account) error {
	defer r.s.lock()()
	for i := range r.s.t.accounts {
		if r.s.t.accounts[i].ID == a.ID {
			a.UpdatedAt = r.s.now()
			r.s.t.accounts[i] = *a
			return nil
		}
	}
	return store.ErrNotFound
}

func (r accountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.s.lock()()
	for i := range r.s.t.accounts {
		if r.s.t.accounts[i].ID == id {
			r.s.t.accounts = append(r.s.t.accounts[:i], r.s.t.accounts[i+1:]...)
			// donors.user_id cascades on delete
			r.s.t.donors = filter(r.s.t.donors, func(d models.Donor) bool { return d.UserID != id })
			return nil
		}
	}
	return store.ErrNotFound
}

func (r accountRepo) List(ctx context.Context, f store.AccountFilter) ([]models.Account, int64, error) {
	defer r.s.lock()()
	matched := filter(r.s.t.accounts, func(a models.Account) bool {
		return f.Role == "" || a.Role == f.Role
	})
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	from, to := page(f.Limit, f.Offset, len(matched))
	return matched[from:to], int64(len(matched)), nil
}

func (r accountRepo) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	defer r.s.lock()()
	var n int64
	for _, a := range r.s.t.accounts {
		if a.Role == role {
			n++
		}
	}
	return n, nil
}

func (s *Store) account(id uuid.UUID) (*models.Account, error) {
	for _, a := range s.t.accounts {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}

type donorRepo struct{ s *Store }

func (r donorRepo) Create(ctx context.Context, d *models.Donor) error {
	defer r.s.lock()()
	for _, existing := range r.s.t.donors {
		if existing.UserID == d.UserID {
			return store.ErrConflict
		}
	}
	if _, err := r.s.account(d.UserID); err != nil {
		return err
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	now := r.s.now()
	d.CreatedAt, d.UpdatedAt = now, now
	row := *d
	row.Account = models.Account{}
	r.s.t.donors = append(r.s.t.donors, row)
	return nil
}

func (r donorRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Donor, error) {
	defer r.s.lock()()
	for _, d := range r.s.t.donors {
		if d.UserID == userID {
			return r.s.withAccount(d), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) withAccount(d models.Donor) *models.Donor {
	if a, err := s.account(d.UserID); err == nil {
		d.Account = *a
	}
	return &d
}

func (r donorRepo) Update(ctx context.Context, d *models.Donor) error {
	defer r.s.lock()()
	for i := range r.s.t.donors {
		if r.s.t.donors[i].ID == d.ID {
			d.UpdatedAt = r.s.now()
			row := *d
			row.Account = models.Account{}
			r.s.t.donors[i] = row
			return nil
		}
	}
	return store.ErrNotFound
}

func (r donorRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	defer r.s.lock()()
	r.s.t.donors = filter(r.s.t.donors, func(d models.Donor) bool { return d.UserID != userID })
	return nil
}

func (r donorRepo) Search(ctx context.Context, f store.DonorFilter) ([]models.Donor, int64, error) {
	defer r.s.lock()()
	var matched []models.Donor
	for _, d := range r.s.t.donors {
		full := r.s.withAccount(d)
		if full.Account.Role != models.RoleDonor {
			continue
		}
		if f.BloodType != "" && d.BloodType != f.BloodType {
			continue
		}
		if f.Country != "" && !strings.EqualFold(d.Country, f.Country) {
			continue
		}
		if f.State != "" && !strings.EqualFold(d.State, f.State) {
			continue
		}
		if f.City != "" && !strings.EqualFold(d.City, f.City) {
			continue
		}
		if f.AvailableOnly && (d.IsAvailable == nil || !*d.IsAvailable) {
			continue
		}
		matched = append(matched, *full)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	from, to := page(f.Limit, f.Offset, len(matched))
	return matched[from:to], int64(len(matched)), nil
}

func (r donorRepo) ReleaseDue(ctx context.Context, now time.Time) (int64, error) {
	defer r.s.lock()()
	var n int64
	for i := range r.s.t.donors {
		d := &r.s.t.donors[i]
		if d.IsAvailable != nil && !*d.IsAvailable && d.AvailableFrom != nil && !d.AvailableFrom.After(now) {
			available := true
			d.IsAvailable = &available
			d.AvailableFrom = nil
			d.UpdatedAt = r.s.now()
			n++
		}
	}
	return n, nil
}

func filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

var _ store.Store = (*Store)(nil)
