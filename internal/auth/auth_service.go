package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/khanghh/kattend/internal/audit"
	"github.com/khanghh/kattend/internal/clientinfo"
	"github.com/khanghh/kattend/internal/metrics"
	"github.com/khanghh/kattend/internal/users"
	"github.com/khanghh/kattend/model"
)

type UserService interface {
	CreateUser(ctx context.Context, opts users.CreateUserOptions) (*model.User, error)
	VerifyCredentials(ctx context.Context, email string, password string) (*model.User, error)
}

type LoginRecorder interface {
	RecordLogin(ctx context.Context, record audit.LoginRecord) error
}

// LoginRequest is one login attempt together with the attribution of the
// request it arrived on.
type LoginRequest struct {
	Email     string
	Password  string
	Client    clientinfo.ClientInfo
	RequestID string
}

type AuthService struct {
	users    UserService
	recorder LoginRecorder
	tokens   *TokenIssuer
}

func (s *AuthService) issue(user *model.User) (string, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", err
	}
	metrics.TokensIssuedTotal.Inc()
	return token, nil
}

// Login verifies credentials and records exactly one login history entry for
// the attempt before a token is issued. Audit write failures are logged by the
// recorder and do not change the outcome.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, *model.User, error) {
	email := users.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return "", nil, ErrMissingField
	}

	// infrastructure failures during verification are recorded as failed attempts too
	user, err := s.users.VerifyCredentials(ctx, email, req.Password)
	record := audit.LoginRecord{
		Email:     email,
		Client:    req.Client,
		Success:   err == nil,
		RequestID: req.RequestID,
	}
	if user != nil {
		record.UserID = &user.ID
	}
	_ = s.recorder.RecordLogin(ctx, record)

	if err != nil {
		return "", nil, err
	}
	token, err := s.issue(user)
	if err != nil {
		return "", nil, err
	}
	slog.Debug("User logged in", "userId", user.ID, "ip", req.Client.IP)
	return token, user, nil
}

// Register creates an account and signs it in. Registration is not a login
// attempt and writes no login history.
func (s *AuthService) Register(ctx context.Context, opts users.CreateUserOptions) (string, *model.User, error) {
	opts.Email = users.NormalizeEmail(opts.Email)
	if opts.Email == "" || opts.Password == "" || strings.TrimSpace(opts.Name) == "" {
		return "", nil, ErrMissingField
	}
	user, err := s.users.CreateUser(ctx, opts)
	if err != nil {
		return "", nil, err
	}
	token, err := s.issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func NewAuthService(userService UserService, recorder LoginRecorder, tokens *TokenIssuer) *AuthService {
	return &AuthService{
		users:    userService,
		recorder: recorder,
		tokens:   tokens,
	}
}
