package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"eprofos_admin_backend/internal/mentors/password"
	"eprofos_admin_backend/internal/mentors/repository"
	"eprofos_admin_backend/internal/mentors/transport"
	"eprofos_admin_backend/platform/apperr"
	"eprofos_admin_backend/platform/logger"
)

type fakeRepo struct {
	mentors map[uuid.UUID]repository.Mentor
	tokens  map[string]storedToken
}

type storedToken struct {
	mentorID  uuid.UUID
	tokenType string
	expiresAt time.Time
	used      bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		mentors: make(map[uuid.UUID]repository.Mentor),
		tokens:  make(map[string]storedToken),
	}
}

func (f *fakeRepo) Create(ctx context.Context, params repository.CreateMentorParams) (repository.Mentor, error) {
	for _, m := range f.mentors {
		if m.Email == params.Email {
			return repository.Mentor{}, repository.ErrEmailTaken
		}
	}
	m := repository.Mentor{
		ID:           uuid.New(),
		Email:        params.Email,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.mentors[m.ID] = m
	return m, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Mentor, error) {
	m, ok := f.mentors[id]
	if !ok {
		return repository.Mentor{}, repository.ErrNotFound
	}
	return m, nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (repository.Mentor, error) {
	for _, m := range f.mentors {
		if m.Email == email {
			return m, nil
		}
	}
	return repository.Mentor{}, repository.ErrNotFound
}

func (f *fakeRepo) List(ctx context.Context) ([]repository.Mentor, error) {
	var out []repository.Mentor
	for _, m := range f.mentors {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeRepo) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	m := f.mentors[id]
	m.EmailVerified = true
	f.mentors[id] = m
	return nil
}

func (f *fakeRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	m := f.mentors[id]
	m.PasswordHash = passwordHash
	f.mentors[id] = m
	return nil
}

func (f *fakeRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) (repository.Mentor, error) {
	m, ok := f.mentors[id]
	if !ok {
		return repository.Mentor{}, repository.ErrNotFound
	}
	m.Active = active
	f.mentors[id] = m
	return m, nil
}

func (f *fakeRepo) CreateToken(ctx context.Context, mentorID uuid.UUID, tokenHash, tokenType string, expiresAt time.Time) error {
	f.tokens[tokenHash] = storedToken{mentorID: mentorID, tokenType: tokenType, expiresAt: expiresAt}
	return nil
}

func (f *fakeRepo) GetToken(ctx context.Context, tokenHash, tokenType string) (uuid.UUID, time.Time, error) {
	t, ok := f.tokens[tokenHash]
	if !ok || t.tokenType != tokenType || t.used {
		return uuid.UUID{}, time.Time{}, repository.ErrNotFound
	}
	return t.mentorID, t.expiresAt, nil
}

func (f *fakeRepo) UseToken(ctx context.Context, tokenHash, tokenType string) error {
	t := f.tokens[tokenHash]
	t.used = true
	f.tokens[tokenHash] = t
	return nil
}

type failingMailer struct {
	welcomeCalls      int
	verificationCalls int
}

func (m *failingMailer) SendMentorWelcomeEmail(ctx context.Context, toEmail, firstName, verifyURL string) error {
	m.welcomeCalls++
	return errors.New("smtp connection refused")
}
func (m *failingMailer) SendVerificationEmail(ctx context.Context, toEmail, verifyURL string) error {
	m.verificationCalls++
	return errors.New("smtp connection refused")
}
func (m *failingMailer) SendPasswordResetEmail(ctx context.Context, toEmail, resetURL string) error {
	return errors.New("smtp connection refused")
}
func (m *failingMailer) SendTeacherWelcomeEmail(ctx context.Context, toEmail, firstName string) error {
	return errors.New("smtp connection refused")
}
func (m *failingMailer) SendAccountStatusEmail(ctx context.Context, toEmail, firstName string, active bool) error {
	return errors.New("smtp connection refused")
}
func (m *failingMailer) SendFollowUpReminderEmail(ctx context.Context, toEmail, prospectName, dueDate string) error {
	return errors.New("smtp connection refused")
}

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration { return 15 * time.Minute }
func (testConfig) GetVerifyTokenTTL() time.Duration { return 48 * time.Hour }
func (testConfig) GetResetTokenTTL() time.Duration  { return time.Hour }
func (testConfig) GetAppBaseURL() string            { return "https://admin.eprofos.fr" }

func newTestService(repo *fakeRepo, mailer *failingMailer) *Service {
	return New(repo, testConfig{}, mailer, logger.New("test"))
}

func TestCreateSurvivesEmailFailure(t *testing.T) {
	repo := newFakeRepo()
	mailer := &failingMailer{}
	svc := newTestService(repo, mailer)

	resp, err := svc.Create(context.Background(), transport.CreateMentorRequest{
		Email:     "mentor@eprofos.fr",
		FirstName: "Claire",
		LastName:  "Dubois",
	})
	if err != nil {
		t.Fatalf("Create must succeed when the welcome email fails, got %v", err)
	}
	if mailer.welcomeCalls != 1 {
		t.Fatalf("expected 1 welcome email attempt, got %d", mailer.welcomeCalls)
	}
	if _, ok := repo.mentors[resp.ID]; !ok {
		t.Fatal("mentor must be persisted despite the email failure")
	}
	if resp.Role != repository.RoleMentor {
		t.Fatalf("default role = %q, want %q", resp.Role, repository.RoleMentor)
	}
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &failingMailer{})

	req := transport.CreateMentorRequest{Email: "dup@eprofos.fr", FirstName: "A", LastName: "B"}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.Create(context.Background(), req)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestSignInRejectsUnverifiedAndInactive(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &failingMailer{})

	hash, err := password.Hash("s3cret-passw0rd")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	id := uuid.New()
	repo.mentors[id] = repository.Mentor{
		ID: id, Email: "m@eprofos.fr", PasswordHash: hash,
		Role: repository.RoleMentor, Active: true, EmailVerified: false,
	}

	_, err = svc.SignIn(context.Background(), transport.SignInRequest{Email: "m@eprofos.fr", Password: "s3cret-passw0rd"})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindForbidden {
		t.Fatalf("unverified sign-in: expected forbidden, got %v", err)
	}

	m := repo.mentors[id]
	m.EmailVerified = true
	m.Active = false
	repo.mentors[id] = m

	_, err = svc.SignIn(context.Background(), transport.SignInRequest{Email: "m@eprofos.fr", Password: "s3cret-passw0rd"})
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindForbidden {
		t.Fatalf("inactive sign-in: expected forbidden, got %v", err)
	}

	m.Active = true
	repo.mentors[id] = m

	resp, err := svc.SignIn(context.Background(), transport.SignInRequest{Email: "m@eprofos.fr", Password: "s3cret-passw0rd"})
	if err != nil {
		t.Fatalf("active verified sign-in: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected an access token")
	}
}

func TestSignInWrongPasswordUnauthorized(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &failingMailer{})

	hash, _ := password.Hash("right-password")
	id := uuid.New()
	repo.mentors[id] = repository.Mentor{
		ID: id, Email: "m@eprofos.fr", PasswordHash: hash,
		Active: true, EmailVerified: true,
	}

	_, err := svc.SignIn(context.Background(), transport.SignInRequest{Email: "m@eprofos.fr", Password: "wrong"})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestForgotPasswordUnknownEmailSilent(t *testing.T) {
	svc := newTestService(newFakeRepo(), &failingMailer{})
	if err := svc.ForgotPassword(context.Background(), "nobody@eprofos.fr"); err != nil {
		t.Fatalf("unknown email must not error, got %v", err)
	}
}

func TestResendVerification(t *testing.T) {
	repo := newFakeRepo()
	mailer := &failingMailer{}
	svc := newTestService(repo, mailer)

	if err := svc.ResendVerification(context.Background(), "nobody@eprofos.fr"); err != nil {
		t.Fatalf("unknown email must not error, got %v", err)
	}
	if mailer.verificationCalls != 0 {
		t.Fatal("unknown email must not trigger a send")
	}

	id := uuid.New()
	repo.mentors[id] = repository.Mentor{
		ID: id, Email: "m@eprofos.fr", Role: repository.RoleMentor,
		Active: true, EmailVerified: true,
	}
	if err := svc.ResendVerification(context.Background(), "m@eprofos.fr"); err != nil {
		t.Fatalf("verified email must not error, got %v", err)
	}
	if mailer.verificationCalls != 0 {
		t.Fatal("verified account must not trigger a send")
	}

	m := repo.mentors[id]
	m.EmailVerified = false
	repo.mentors[id] = m

	if err := svc.ResendVerification(context.Background(), "m@eprofos.fr"); err != nil {
		t.Fatalf("resend must swallow the delivery failure, got %v", err)
	}
	if mailer.verificationCalls != 1 {
		t.Fatalf("expected 1 verification email attempt, got %d", mailer.verificationCalls)
	}

	tokens := 0
	for _, tok := range repo.tokens {
		if tok.tokenType == repository.TokenTypeEmailVerify && tok.mentorID == id {
			tokens++
		}
	}
	if tokens != 1 {
		t.Fatalf("expected 1 stored verification token, got %d", tokens)
	}
}
