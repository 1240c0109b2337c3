// Package service implements the mentor account lifecycle: creation with a
// generated temporary password, email verification, sign-in, password reset
// and activation toggling.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"eprofos_admin_backend/internal/email"
	"eprofos_admin_backend/internal/mentors/password"
	"eprofos_admin_backend/internal/mentors/repository"
	"eprofos_admin_backend/internal/mentors/token"
	"eprofos_admin_backend/internal/mentors/transport"
	"eprofos_admin_backend/platform/apperr"
	"eprofos_admin_backend/platform/config"
	"eprofos_admin_backend/platform/logger"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTokenExpired = errors.New("token expired")
var ErrTokenInvalid = errors.New("token invalid")
var ErrEmailNotVerified = errors.New("email not verified")
var ErrAccountInactive = errors.New("account inactive")

const accessTokenType = "access"

// Repository defines the data access interface needed by the mentor service.
type Repository interface {
	Create(ctx context.Context, params repository.CreateMentorParams) (repository.Mentor, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Mentor, error)
	GetByEmail(ctx context.Context, email string) (repository.Mentor, error)
	List(ctx context.Context) ([]repository.Mentor, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) (repository.Mentor, error)
	CreateToken(ctx context.Context, mentorID uuid.UUID, tokenHash, tokenType string, expiresAt time.Time) error
	GetToken(ctx context.Context, tokenHash, tokenType string) (uuid.UUID, time.Time, error)
	UseToken(ctx context.Context, tokenHash, tokenType string) error
}

type Service struct {
	repo Repository
	cfg  config.AuthServiceConfig
	mail email.Sender
	log  *logger.Logger
}

func New(repo Repository, cfg config.AuthServiceConfig, mailer email.Sender, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, mail: mailer, log: log}
}

// Create registers a mentor with a generated temporary password and sends the
// welcome email with a verification link. Email delivery failures are logged
// and swallowed; the account is created either way.
func (s *Service) Create(ctx context.Context, req transport.CreateMentorRequest) (transport.MentorResponse, error) {
	tempPassword, err := token.GenerateRandomToken(12)
	if err != nil {
		return transport.MentorResponse{}, apperr.Internal("failed to generate temporary password", err)
	}
	hash, err := password.Hash(tempPassword)
	if err != nil {
		return transport.MentorResponse{}, apperr.Internal("failed to hash password", err)
	}

	role := req.Role
	if role == "" {
		role = repository.RoleMentor
	}

	mentor, err := s.repo.Create(ctx, repository.CreateMentorParams{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			s.log.AccountEvent("mentor_create", req.Email, false, "email already registered")
			return transport.MentorResponse{}, apperr.Conflict("email already registered")
		}
		return transport.MentorResponse{}, apperr.Internal("failed to create mentor", err)
	}
	s.log.AccountEvent("mentor_create", mentor.Email, true, "")

	verifyToken, err := token.GenerateRandomToken(32)
	if err != nil {
		return transport.MentorResponse{}, apperr.Internal("failed to generate verification token", err)
	}
	expiresAt := time.Now().Add(s.cfg.GetVerifyTokenTTL())
	if err := s.repo.CreateToken(ctx, mentor.ID, token.HashSHA256(verifyToken), repository.TokenTypeEmailVerify, expiresAt); err != nil {
		return transport.MentorResponse{}, apperr.Internal("failed to store verification token", err)
	}

	verifyURL := s.buildURL("/verify-email", verifyToken)
	if err := s.mail.SendMentorWelcomeEmail(ctx, mentor.Email, mentor.FirstName, verifyURL); err != nil {
		s.log.EmailWarn("mentor_welcome", mentor.Email, err)
	}

	return toMentorResponse(mentor), nil
}

// SignIn checks credentials and issues a JWT access token. Inactive or
// unverified accounts are rejected after the password check so the error does
// not leak which addresses exist.
func (s *Service) SignIn(ctx context.Context, req transport.SignInRequest) (transport.SignInResponse, error) {
	mentor, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.log.AccountEvent("mentor_signin", req.Email, false, "unknown email")
		return transport.SignInResponse{}, apperr.Unauthorized(ErrInvalidCredentials.Error())
	}

	if err := password.Compare(mentor.PasswordHash, req.Password); err != nil {
		s.log.AccountEvent("mentor_signin", req.Email, false, "wrong password")
		return transport.SignInResponse{}, apperr.Unauthorized(ErrInvalidCredentials.Error())
	}

	if !mentor.EmailVerified {
		s.log.AccountEvent("mentor_signin", req.Email, false, "email not verified")
		return transport.SignInResponse{}, apperr.Forbidden(ErrEmailNotVerified.Error())
	}
	if !mentor.Active {
		s.log.AccountEvent("mentor_signin", req.Email, false, "account inactive")
		return transport.SignInResponse{}, apperr.Forbidden(ErrAccountInactive.Error())
	}

	accessToken, err := s.signJWT(mentor.ID, mentor.Role)
	if err != nil {
		return transport.SignInResponse{}, apperr.Internal("failed to sign token", err)
	}

	s.log.AccountEvent("mentor_signin", mentor.Email, true, "")
	return transport.SignInResponse{
		AccessToken: accessToken,
		Mentor:      toMentorResponse(mentor),
	}, nil
}

// VerifyEmail consumes a one-shot verification token.
func (s *Service) VerifyEmail(ctx context.Context, rawToken string) error {
	hash := token.HashSHA256(rawToken)
	mentorID, expiresAt, err := s.repo.GetToken(ctx, hash, repository.TokenTypeEmailVerify)
	if err != nil {
		return apperr.Validation(ErrTokenInvalid.Error())
	}
	if time.Now().After(expiresAt) {
		return apperr.Validation(ErrTokenExpired.Error())
	}

	if err := s.repo.MarkEmailVerified(ctx, mentorID); err != nil {
		return apperr.Internal("failed to mark email verified", err)
	}
	_ = s.repo.UseToken(ctx, hash, repository.TokenTypeEmailVerify)

	s.log.Info("mentor email verified", "mentorId", mentorID)
	return nil
}

// ResendVerification issues a fresh verification link. Unknown and already
// verified emails return success to avoid account enumeration.
func (s *Service) ResendVerification(ctx context.Context, emailAddr string) error {
	mentor, err := s.repo.GetByEmail(ctx, emailAddr)
	if err != nil || mentor.EmailVerified {
		return nil
	}

	verifyToken, err := token.GenerateRandomToken(32)
	if err != nil {
		return apperr.Internal("failed to generate verification token", err)
	}
	expiresAt := time.Now().Add(s.cfg.GetVerifyTokenTTL())
	if err := s.repo.CreateToken(ctx, mentor.ID, token.HashSHA256(verifyToken), repository.TokenTypeEmailVerify, expiresAt); err != nil {
		return apperr.Internal("failed to store verification token", err)
	}

	verifyURL := s.buildURL("/verify-email", verifyToken)
	if err := s.mail.SendVerificationEmail(ctx, mentor.Email, verifyURL); err != nil {
		s.log.EmailWarn("email_verification", mentor.Email, err)
	}
	return nil
}

// ForgotPassword sends a reset link. Unknown emails return success to avoid
// account enumeration.
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) error {
	mentor, err := s.repo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil
	}

	resetToken, err := token.GenerateRandomToken(32)
	if err != nil {
		return apperr.Internal("failed to generate reset token", err)
	}
	expiresAt := time.Now().Add(s.cfg.GetResetTokenTTL())
	if err := s.repo.CreateToken(ctx, mentor.ID, token.HashSHA256(resetToken), repository.TokenTypePasswordReset, expiresAt); err != nil {
		return apperr.Internal("failed to store reset token", err)
	}

	resetURL := s.buildURL("/reset-password", resetToken)
	if err := s.mail.SendPasswordResetEmail(ctx, mentor.Email, resetURL); err != nil {
		s.log.EmailWarn("password_reset", mentor.Email, err)
	}
	return nil
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	hash := token.HashSHA256(rawToken)
	mentorID, expiresAt, err := s.repo.GetToken(ctx, hash, repository.TokenTypePasswordReset)
	if err != nil {
		return apperr.Validation(ErrTokenInvalid.Error())
	}
	if time.Now().After(expiresAt) {
		return apperr.Validation(ErrTokenExpired.Error())
	}

	passwordHash, err := password.Hash(newPassword)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}
	if err := s.repo.UpdatePassword(ctx, mentorID, passwordHash); err != nil {
		return apperr.Internal("failed to update password", err)
	}
	_ = s.repo.UseToken(ctx, hash, repository.TokenTypePasswordReset)

	s.log.AccountEvent("mentor_password_reset", mentorID.String(), true, "")
	return nil
}

// SetActive toggles an account and notifies the mentor by email. Delivery
// failures are logged and swallowed.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (transport.MentorResponse, error) {
	mentor, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.MentorResponse{}, apperr.NotFound("mentor not found")
		}
		return transport.MentorResponse{}, apperr.Internal("failed to update mentor status", err)
	}

	if err := s.mail.SendAccountStatusEmail(ctx, mentor.Email, mentor.FirstName, active); err != nil {
		s.log.EmailWarn("account_status", mentor.Email, err)
	}

	s.log.AccountEvent("mentor_set_active", mentor.Email, true, "")
	return toMentorResponse(mentor), nil
}

// Get returns a mentor by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.MentorResponse, error) {
	mentor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.MentorResponse{}, apperr.NotFound("mentor not found")
		}
		return transport.MentorResponse{}, apperr.Internal("failed to get mentor", err)
	}
	return toMentorResponse(mentor), nil
}

// List returns all mentors, newest first.
func (s *Service) List(ctx context.Context) (transport.MentorListResponse, error) {
	mentors, err := s.repo.List(ctx)
	if err != nil {
		return transport.MentorListResponse{}, apperr.Internal("failed to list mentors", err)
	}

	resp := transport.MentorListResponse{Items: make([]transport.MentorResponse, 0, len(mentors))}
	for _, m := range mentors {
		resp.Items = append(resp.Items, toMentorResponse(m))
	}
	return resp, nil
}

func (s *Service) signJWT(mentorID uuid.UUID, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  mentorID.String(),
		"type": accessTokenType,
		"role": role,
		"exp":  time.Now().Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":  time.Now().Unix(),
	}
	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func (s *Service) buildURL(path string, tokenValue string) string {
	base := strings.TrimRight(s.cfg.GetAppBaseURL(), "/")
	return base + path + "?token=" + tokenValue
}

func toMentorResponse(m repository.Mentor) transport.MentorResponse {
	return transport.MentorResponse{
		ID:            m.ID,
		Email:         m.Email,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		Role:          m.Role,
		Active:        m.Active,
		EmailVerified: m.EmailVerified,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
