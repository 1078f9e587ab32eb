package gormstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/database"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

type GormStoreSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *gorm.DB
	store     *Store
}

func TestGormStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration tests in short mode")
	}
	suite.Run(t, new(GormStoreSuite))
}

func (s *GormStoreSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("bloodbridge"),
		postgres.WithUsername("bloodbridge"),
		postgres.WithPassword("bloodbridge"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		s.T().Skipf("docker unavailable: %v", err)
	}
	s.container = container

	dsn, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = database.Open(dsn)
	s.Require().NoError(err)
	s.Require().NoError(database.Migrate(s.db))
	s.store = New(s.db)
}

func (s *GormStoreSuite) TearDownSuite() {
	if s.db != nil {
		database.Close(s.db)
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *GormStoreSuite) SetupTest() {
	s.Require().NoError(s.db.Exec(`TRUNCATE accounts, donors, block_records, unblock_requests,
		notifications, reports, donor_votes, chat_messages CASCADE`).Error)
}

func (s *GormStoreSuite) account(email string, role models.Role) *models.Account {
	a := &models.Account{
		Email:       email,
		Password:    "hash",
		Name:        "Test",
		Role:        role,
		DateOfBirth: time.Date(1995, time.May, 2, 0, 0, 0, 0, time.UTC),
		CurrentAge:  30,
	}
	s.Require().NoError(s.store.Accounts().Create(s.ctx, a))
	return a
}

func (s *GormStoreSuite) donor(a *models.Account, bloodType string) *models.Donor {
	available := true
	d := &models.Donor{
		UserID:      a.ID,
		BloodType:   bloodType,
		DateOfBirth: a.DateOfBirth,
		Gender:      "female",
		WeightKg:    60,
		HeightCm:    170,
		Country:     "Bangladesh",
		City:        "Dhaka",
		IsAvailable: &available,
	}
	s.Require().NoError(s.store.Donors().Create(s.ctx, d))
	return d
}

func (s *GormStoreSuite) TestDuplicateEmailIsConflict() {
	s.account("dup@example.com", models.RoleUser)

	err := s.store.Accounts().Create(s.ctx, &models.Account{
		Email: "dup@example.com", Password: "x", Name: "Other", Role: models.RoleUser,
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	s.ErrorIs(err, store.ErrConflict)
}

func (s *GormStoreSuite) TestGetUnknownIsNotFound() {
	_, err := s.store.Accounts().Get(s.ctx, uuid.New())
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *GormStoreSuite) TestWithTxRollsBack() {
	a := s.account("tx@example.com", models.RoleDonor)

	boom := errors.New("boom")
	err := s.store.WithTx(s.ctx, func(tx store.Store) error {
		locked, err := tx.Accounts().GetForUpdate(s.ctx, a.ID)
		s.Require().NoError(err)
		locked.Role = models.RoleBlocked
		s.Require().NoError(tx.Accounts().Update(s.ctx, locked))
		s.Require().NoError(tx.Blocks().Create(s.ctx, &models.BlockRecord{UserID: a.ID, Email: a.Email}))
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.store.Accounts().Get(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(models.RoleDonor, got.Role)
	_, err = s.store.Blocks().GetByUser(s.ctx, a.ID)
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *GormStoreSuite) TestSearchHidesBlockedDonors() {
	visible := s.account("visible@example.com", models.RoleDonor)
	hidden := s.account("hidden@example.com", models.RoleBlocked)
	s.donor(visible, "O+")
	s.donor(hidden, "O+")

	donors, total, err := s.store.Donors().Search(s.ctx, store.DonorFilter{BloodType: "O+", City: "dhaka"})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(donors, 1)
	s.Equal(visible.ID, donors[0].UserID)
	s.Equal(models.RoleDonor, donors[0].Account.Role)
}

func (s *GormStoreSuite) TestReleaseDue() {
	a := s.account("later@example.com", models.RoleDonor)
	d := s.donor(a, "A-")

	unavailable := false
	past := time.Now().Add(-time.Hour)
	d.IsAvailable = &unavailable
	d.AvailableFrom = &past
	s.Require().NoError(s.store.Donors().Update(s.ctx, d))

	n, err := s.store.Donors().ReleaseDue(s.ctx, time.Now())
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	got, err := s.store.Donors().GetByUser(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.IsAvailable)
	s.True(*got.IsAvailable)
	s.Nil(got.AvailableFrom)
}

func (s *GormStoreSuite) TestVotesTallyAndUniqueness() {
	donor := s.account("donor@example.com", models.RoleDonor)
	v1 := s.account("v1@example.com", models.RoleUser)
	v2 := s.account("v2@example.com", models.RoleUser)

	s.Require().NoError(s.store.Votes().Create(s.ctx, &models.DonorVote{VoterID: v1.ID, DonorID: donor.ID, Vote: models.VoteUp}))
	s.Require().NoError(s.store.Votes().Create(s.ctx, &models.DonorVote{VoterID: v2.ID, DonorID: donor.ID, Vote: models.VoteDown}))
	err := s.store.Votes().Create(s.ctx, &models.DonorVote{VoterID: v1.ID, DonorID: donor.ID, Vote: models.VoteDown})
	s.ErrorIs(err, store.ErrConflict)

	tally, err := s.store.Votes().Tally(s.ctx, donor.ID)
	s.Require().NoError(err)
	s.Equal(store.VoteTally{Up: 1, Down: 1}, tally)
}

func (s *GormStoreSuite) TestUnblockRequestStatus() {
	a := s.account("blocked@example.com", models.RoleBlocked)
	block := &models.BlockRecord{UserID: a.ID, Email: a.Email, RoleBeforeBlock: models.RoleUser}
	s.Require().NoError(s.store.Blocks().Create(s.ctx, block))

	for i := 0; i < 2; i++ {
		s.Require().NoError(s.store.UnblockRequests().Create(s.ctx, &models.UnblockRequest{
			UserID: a.ID, BlockID: block.ID, Message: "please", Status: models.UnblockStatusBlocked,
		}))
	}

	n, err := s.store.UnblockRequests().SetStatusByUser(s.ctx, a.ID, models.UnblockStatusUnblocked)
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	pending, err := s.store.UnblockRequests().List(s.ctx, models.UnblockStatusBlocked)
	s.Require().NoError(err)
	s.Empty(pending)
}
