package admin

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/smarttechsol/stockdesk/internal/config"
	"github.com/smarttechsol/stockdesk/internal/domain/models"
	"github.com/smarttechsol/stockdesk/internal/repository/mongodb"
	"github.com/smarttechsol/stockdesk/pkg/clients/mailer"
)

type fakeAdminRepo struct {
	admins map[string]models.Admin // keyed by username
}

func newFakeAdminRepo(admins ...models.Admin) *fakeAdminRepo {
	repo := &fakeAdminRepo{admins: make(map[string]models.Admin)}
	for _, a := range admins {
		repo.admins[a.Username] = a
	}
	return repo
}

func (f *fakeAdminRepo) FindByUsername(_ context.Context, username string) (*models.Admin, error) {
	admin, ok := f.admins[username]
	if !ok {
		return nil, mongodb.ErrNotFound
	}
	copied := admin
	return &copied, nil
}

func (f *fakeAdminRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.admins)), nil
}

func (f *fakeAdminRepo) Insert(_ context.Context, admin models.Admin) error {
	f.admins[admin.Username] = admin
	return nil
}

func (f *fakeAdminRepo) UpdatePassword(_ context.Context, id string, password string, changedAt string) error {
	for username, admin := range f.admins {
		if admin.ID == id {
			admin.Password = password
			admin.LastPasswordChange = changedAt
			f.admins[username] = admin
			return nil
		}
	}
	return mongodb.ErrNotFound
}

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) SendMail(_ context.Context, msg mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestLogin(t *testing.T) {
	repo := newFakeAdminRepo(models.Admin{ID: "1", Username: "alice", Password: "s3cret", PhoneNo: "+100"})
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	account, err := svc.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if account.PhoneNo != "+100" {
		t.Errorf("unexpected account: %+v", account)
	}

	if _, err := svc.Login(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody", "x"); !errors.Is(err, mongodb.ErrNotFound) {
		t.Errorf("unknown user error = %v, want ErrNotFound", err)
	}
}

func TestBootstrap(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewService(repo, nil, nil)
	cfg := config.BootstrapConfig{AdminUsername: "admin", AdminPassword: "admin123", AdminPhone: "+911234567890"}

	if err := svc.Bootstrap(context.Background(), cfg); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	seeded, ok := repo.admins["admin"]
	if !ok || seeded.Password != "admin123" {
		t.Fatalf("default admin not seeded: %+v", repo.admins)
	}

	// A populated collection is left alone.
	seeded.Password = "changed"
	repo.admins["admin"] = seeded
	if err := svc.Bootstrap(context.Background(), cfg); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	if repo.admins["admin"].Password != "changed" {
		t.Error("bootstrap must not touch existing accounts")
	}
}

func TestChangePassword(t *testing.T) {
	repo := newFakeAdminRepo(models.Admin{ID: "1", Username: "alice", Password: "old"})
	svc := NewService(repo, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, "alice", "wrong", "new"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	if err := svc.ChangePassword(ctx, "alice", "old", "new"); err != nil {
		t.Fatalf("change failed: %v", err)
	}

	updated := repo.admins["alice"]
	if updated.Password != "new" {
		t.Errorf("password not updated: %+v", updated)
	}
	if updated.LastPasswordChange != "2024-06-01T00:00:00Z" {
		t.Errorf("lastPasswordChange = %q", updated.LastPasswordChange)
	}
}

func TestResetPassword(t *testing.T) {
	repo := newFakeAdminRepo(models.Admin{ID: "1", Username: "alice", Password: "old"})
	svc := NewService(repo, nil, nil)

	if err := svc.ResetPassword(context.Background(), "alice", "fresh"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if repo.admins["alice"].Password != "fresh" {
		t.Errorf("password not reset: %+v", repo.admins["alice"])
	}

	if err := svc.ResetPassword(context.Background(), "nobody", "x"); !errors.Is(err, mongodb.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSendEmailOTP(t *testing.T) {
	repo := newFakeAdminRepo(
		models.Admin{ID: "1", Username: "alice", Mail: "alice@example.com"},
		models.Admin{ID: "2", Username: "bob"},
	)
	mail := &fakeMailer{}
	svc := NewService(repo, mail, nil)
	ctx := context.Background()

	if err := svc.SendEmailOTP(ctx, "alice"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(mail.sent))
	}
	msg := mail.sent[0]
	if msg.To != "alice@example.com" {
		t.Errorf("mail sent to %q", msg.To)
	}

	// The mailed code must verify.
	code := extractCode(t, msg.Body)
	if err := svc.VerifyEmailOTP("alice", code); err != nil {
		t.Errorf("mailed code did not verify: %v", err)
	}

	if err := svc.SendEmailOTP(ctx, "bob"); !errors.Is(err, ErrNoEmailOnFile) {
		t.Errorf("no-email error = %v, want ErrNoEmailOnFile", err)
	}
	if err := svc.SendEmailOTP(ctx, "nobody"); !errors.Is(err, mongodb.ErrNotFound) {
		t.Errorf("unknown-user error = %v, want ErrNotFound", err)
	}
}

func TestSendEmailOTP_MailerDisabled(t *testing.T) {
	repo := newFakeAdminRepo(models.Admin{ID: "1", Username: "alice", Mail: "alice@example.com"})
	svc := NewService(repo, nil, nil)

	if err := svc.SendEmailOTP(context.Background(), "alice"); !errors.Is(err, ErrMailerDisabled) {
		t.Errorf("error = %v, want ErrMailerDisabled", err)
	}
}

func TestSendEmailOTP_MailFailure(t *testing.T) {
	repo := newFakeAdminRepo(models.Admin{ID: "1", Username: "alice", Mail: "alice@example.com"})
	mail := &fakeMailer{err: errors.New("smtp down")}
	svc := NewService(repo, mail, nil)

	if err := svc.SendEmailOTP(context.Background(), "alice"); err == nil {
		t.Error("expected mail delivery error")
	}
}

// extractCode pulls the six-digit code out of the OTP mail body.
func extractCode(t *testing.T, body string) string {
	t.Helper()
	for _, word := range strings.Fields(body) {
		trimmed := strings.TrimSuffix(word, ".")
		if len(trimmed) == 6 && strings.Trim(trimmed, "0123456789") == "" {
			return trimmed
		}
	}
	t.Fatalf("no code found in %q", body)
	return ""
}
