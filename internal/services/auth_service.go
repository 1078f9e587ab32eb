package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/eligibility"
	"github.com/bloodbridge/bloodbridge-backend/internal/metrics"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/session"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	store       store.Store
	tokens      *session.Manager
	revocations session.Revocations
	adminSecret string
	now         func() time.Time
}

func NewAuthService(st store.Store, tokens *session.Manager, revocations session.Revocations, adminSecret string) *AuthService {
	return &AuthService{
		store:       st,
		tokens:      tokens,
		revocations: revocations,
		adminSecret: adminSecret,
		now:         time.Now,
	}
}

// AuthResult is a signed-in account plus its session token.
type AuthResult struct {
	Account   *models.Account
	Token     string
	ExpiresAt time.Time
}

func (r *AuthResult) Response() *dto.AuthResponse {
	return &dto.AuthResponse{
		Token:     r.Token,
		User:      r.Account,
		Variant:   string(eligibility.Resolve(eligibility.SnapshotOf(r.Account))),
		ExpiresAt: r.ExpiresAt,
	}
}

// RegisterDonor creates a donor account and its donor record atomically.
func (s *AuthService) RegisterDonor(ctx context.Context, req *dto.DonorRegisterRequest) (*AuthResult, error) {
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !eligibility.CanDonate(dob, now) {
		return nil, ErrNotEligible
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Email:       normalizeEmail(req.Email),
		Password:    hash,
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Role:        models.RoleDonor,
		DateOfBirth: dob,
		CurrentAge:  eligibility.AgeAt(dob, now),
	}

	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Accounts().Create(ctx, account); err != nil {
			return translateAccountErr(err)
		}
		donor := newDonor(account, req.DonorFields)
		return tx.Donors().Create(ctx, donor)
	})
	if err != nil {
		return nil, err
	}

	metrics.AuthEvents.WithLabelValues("register_donor").Inc()
	slog.Info("donor registered", "user_id", account.ID.String(), "action", "register_donor")
	return s.issue(account)
}

// Signup creates a non-donor account whose eligibility comes from the age policy.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*AuthResult, error) {
	account, err := s.newAccount(req, models.RoleUser)
	if err != nil {
		return nil, err
	}
	if err := s.store.Accounts().Create(ctx, account); err != nil {
		return nil, translateAccountErr(err)
	}

	metrics.AuthEvents.WithLabelValues("signup").Inc()
	slog.Info("user signed up", "user_id", account.ID.String(), "action", "signup", "signup_reason", string(account.SignupReason))
	return s.issue(account)
}

// RegisterAdmin is signup guarded by the shared admin secret. An empty
// configured secret disables the path.
func (s *AuthService) RegisterAdmin(ctx context.Context, secret string, req *dto.SignupRequest) (*AuthResult, error) {
	if s.adminSecret == "" {
		return nil, ErrAdminRegistrationDisabled
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.adminSecret)) != 1 {
		slog.Warn("admin registration with invalid secret", "email", req.Email, "action", "register_admin")
		return nil, ErrInvalidAdminSecret
	}

	account, err := s.newAccount(req, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.store.Accounts().Create(ctx, account); err != nil {
		return nil, translateAccountErr(err)
	}

	metrics.AuthEvents.WithLabelValues("register_admin").Inc()
	slog.Info("admin registered", "user_id", account.ID.String(), "action", "register_admin")
	return s.issue(account)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error) {
	account, err := s.store.Accounts().FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.AuthEvents.WithLabelValues("login_failed").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		metrics.AuthEvents.WithLabelValues("login_failed").Inc()
		return nil, ErrInvalidCredentials
	}

	metrics.AuthEvents.WithLabelValues("login").Inc()
	return s.issue(account)
}

// Logout revokes the token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims session.Claims) error {
	ttl := claims.ExpiresAt.Sub(s.now())
	if err := s.revocations.Revoke(ctx, claims.JTI, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	metrics.AuthEvents.WithLabelValues("logout").Inc()
	return nil
}

func (s *AuthService) newAccount(req *dto.SignupRequest, role models.Role) (*models.Account, error) {
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	assessed, err := eligibility.Normalize(models.SignupReason(req.SignupReason), dob, s.now())
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Email:       normalizeEmail(req.Email),
		Password:    hash,
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Role:        role,
		DateOfBirth: dob,
	}
	assessed.Apply(account)
	return account, nil
}

func (s *AuthService) issue(account *models.Account) (*AuthResult, error) {
	token, claims, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Account: account, Token: token, ExpiresAt: claims.ExpiresAt}, nil
}

func newDonor(account *models.Account, f dto.DonorFields) *models.Donor {
	available := true
	return &models.Donor{
		UserID:      account.ID,
		BloodType:   f.BloodType,
		DateOfBirth: account.DateOfBirth,
		Gender:      f.Gender,
		WeightKg:    f.WeightKg,
		HeightCm:    f.HeightCm,
		Country:     strings.TrimSpace(f.Country),
		State:       strings.TrimSpace(f.State),
		City:        strings.TrimSpace(f.City),
		IsAvailable: &available,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func translateAccountErr(err error) error {
	if errors.Is(err, store.ErrConflict) {
		return ErrEmailTaken
	}
	return fmt.Errorf("failed to create account: %w", err)
}
