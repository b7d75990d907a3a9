package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tacology/feedback/internal/models"
)

type AuthStore interface {
	FindAdminByEmail(email string) (*models.AdminUser, error)
	AddAdmin(u *models.AdminUser) error
}

// TokenSigner mints a session token for an authenticated admin.
type TokenSigner func(uid, email string, ttl time.Duration) (string, error)

// AdminPolicy decides who may hold an admin account. It is supplied from
// deployment configuration, not compiled in.
type AdminPolicy struct {
	AllowedEmails map[string]struct{}
}

func NewAdminPolicy(emails []string) AdminPolicy {
	allowed := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			allowed[e] = struct{}{}
		}
	}
	return AdminPolicy{AllowedEmails: allowed}
}

// Allows reports whether the policy admits an email. An empty allowlist
// admits everyone (development mode).
func (p AdminPolicy) Allows(email string) bool {
	if len(p.AllowedEmails) == 0 {
		return true
	}
	_, ok := p.AllowedEmails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

type AuthService struct {
	store     AuthStore
	policy    AdminPolicy
	signToken TokenSigner
	tokenTTL  time.Duration
	now       func() time.Time
	newID     func() string
}

type AuthResult struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func NewAuthService(store AuthStore, policy AdminPolicy, signer TokenSigner) *AuthService {
	return &AuthService{
		store:     store,
		policy:    policy,
		signToken: signer,
		tokenTTL:  30 * 24 * time.Hour,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

func (s *AuthService) Register(email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	if !s.policy.Allows(email) {
		return nil, NewForbiddenError("email not permitted")
	}
	existing, err := s.store.FindAdminByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("email exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.AdminUser{ID: s.newID(), Email: email, PassHash: hash, CreatedAt: s.now()}
	if err := s.store.AddAdmin(user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	if !s.policy.Allows(email) {
		return nil, NewForbiddenError("email not permitted")
	}
	u, err := s.store.FindAdminByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(u.PassHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *models.AdminUser) (*AuthResult, error) {
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(u.ID, u.Email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, UserID: u.ID, Email: u.Email}, nil
}
