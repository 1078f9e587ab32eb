package services

import (
	"context"
	"testing"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/config"
	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/session"
	"github.com/bloodbridge/bloodbridge-backend/internal/store/memory"
	"github.com/bloodbridge/bloodbridge-backend/internal/textproc"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	args := m.Called(ctx, toEmail, toName, subject, body)
	return args.Error(0)
}

type env struct {
	store       *memory.Store
	revocations *session.MemoryRevocations
	mailer      *mockMailer
	auth        *AuthService
	profile     *ProfileService
	moderation  *ModerationService
	admin       *AdminService
	donors      *DonorService
	notes       *NotificationService
	votes       *VoteService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := memory.New()
	text := textproc.New()
	revocations := session.NewMemoryRevocations()
	mailer := &mockMailer{}

	e := &env{
		store:       st,
		revocations: revocations,
		mailer:      mailer,
		auth:        NewAuthService(st, session.NewManager("test-secret", time.Hour), revocations, "admin-key"),
		profile:     NewProfileService(st),
		moderation:  NewModerationService(st, text),
		donors:      NewDonorService(st),
	}
	e.admin = NewAdminService(st, mailer, text)
	e.notes = NewNotificationService(st, e.moderation, text)
	e.votes = NewVoteService(st, e.moderation, text)

	e.auth.now = clock
	e.profile.now = clock
	e.donors.now = clock
	return e
}

func newChatbot(e *env, cfg *config.Config) *ChatbotService {
	text := textproc.New()
	c := NewChatbotService(e.store, e.moderation, text, cfg)
	c.now = clock
	return c
}

func dob(age int) string {
	return time.Date(testNow.Year()-age, time.January, 10, 0, 0, 0, 0, time.UTC).Format(dto.DateLayout)
}

func donorFields() dto.DonorFields {
	return dto.DonorFields{
		BloodType: "O+",
		Gender:    "female",
		WeightKg:  62,
		HeightCm:  168,
		Country:   "Bangladesh",
		State:     "Dhaka Division",
		City:      "Dhaka",
	}
}

func (e *env) registerDonor(t *testing.T, email string, age int) *models.Account {
	t.Helper()
	res, err := e.auth.RegisterDonor(context.Background(), &dto.DonorRegisterRequest{
		Name:        "Donor " + email,
		Email:       email,
		Password:    "password123",
		Phone:       "01700000000",
		DateOfBirth: dob(age),
		DonorFields: donorFields(),
	})
	require.NoError(t, err)
	return res.Account
}

func (e *env) signup(t *testing.T, email string, age int, reason models.SignupReason) *models.Account {
	t.Helper()
	res, err := e.auth.Signup(context.Background(), &dto.SignupRequest{
		Name:         "User " + email,
		Email:        email,
		Password:     "password123",
		Phone:        "01700000001",
		DateOfBirth:  dob(age),
		SignupReason: string(reason),
	})
	require.NoError(t, err)
	return res.Account
}

func (e *env) registerAdmin(t *testing.T, email string) *models.Account {
	t.Helper()
	res, err := e.auth.RegisterAdmin(context.Background(), "admin-key", &dto.SignupRequest{
		Name:         "Admin",
		Email:        email,
		Password:     "password123",
		Phone:        "01700000002",
		DateOfBirth:  dob(40),
		SignupReason: string(models.ReasonDonateLater),
	})
	require.NoError(t, err)
	return res.Account
}

func (e *env) account(t *testing.T, id uuid.UUID) *models.Account {
	t.Helper()
	a, err := e.store.Accounts().Get(context.Background(), id)
	require.NoError(t, err)
	return a
}

func ptr[T any](v T) *T { return &v }
