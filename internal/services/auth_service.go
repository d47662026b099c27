package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentscope/internal/logger"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/repositories"
	"github.com/yoockh/talentscope/internal/utils"
)

const (
	BackendLocal    = "local"
	BackendUpstream = "upstream"
)

// AuthBackend issues credentials for login and registration.
type AuthBackend interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
}

type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
	// Resolve maps an access token to its user id.
	Resolve(ctx context.Context, token string) (string, error)
}

type authService struct {
	backend     AuthBackend
	backendName string
	sessions    repositories.AuthSessionRepository
	secret      string
	ttl         time.Duration
	log         *logrus.Entry
	now         func() time.Time
}

// NewAuthService stores every issued session under the auth-storage key.
// secret, when set, also lets stateless local tokens resolve after the
// session store was lost.
func NewAuthService(backend AuthBackend, backendName string, sessions repositories.AuthSessionRepository, secret string, ttl time.Duration, l *logrus.Logger) AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authService{
		backend:     backend,
		backendName: backendName,
		sessions:    sessions,
		secret:      secret,
		ttl:         ttl,
		log:         logger.Component(l, "auth"),
		now:         time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	const op = "AuthService.Login"
	resp, err := s.backend.Login(ctx, req)
	if err != nil {
		return nil, utils.Wrap(op, err)
	}
	return resp, s.persist(ctx, op, resp)
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	const op = "AuthService.Register"
	resp, err := s.backend.Register(ctx, req)
	if err != nil {
		return nil, utils.Wrap(op, err)
	}
	return resp, s.persist(ctx, op, resp)
}

func (s *authService) persist(ctx context.Context, op string, resp *models.AuthResponse) error {
	now := s.now().UTC()
	sess := &models.AuthSession{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
		Backend:      s.backendName,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to store auth session", err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, token string) (*models.User, error) {
	const op = "AuthService.Me"

	sess, err := s.session(ctx, op, token)
	if err != nil {
		return nil, err
	}
	u := sess.User
	return &u, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	const op = "AuthService.Logout"
	if strings.TrimSpace(token) == "" {
		return utils.E(utils.CodeUnauthorized, op, "missing bearer token", nil)
	}
	if err := s.sessions.DeleteByAccessToken(ctx, token); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete auth session", err)
	}
	return nil
}

func (s *authService) Resolve(ctx context.Context, token string) (string, error) {
	const op = "AuthService.Resolve"

	sess, err := s.session(ctx, op, token)
	if err == nil {
		if sess.User.ID != "" {
			return sess.User.ID, nil
		}
		return "", utils.E(utils.CodeUnauthorized, op, "invalid token", nil)
	}
	if !utils.IsCode(err, utils.CodeUnauthorized) {
		return "", err
	}

	if s.secret != "" {
		if claims, perr := utils.ParseToken(s.secret, token); perr == nil {
			return claims.Subject, nil
		}
	}
	return "", err
}

func (s *authService) session(ctx context.Context, op, token string) (*models.AuthSession, error) {
	if strings.TrimSpace(token) == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "missing bearer token", nil)
	}
	sess, err := s.sessions.GetByAccessToken(ctx, token)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid token", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read auth session", err)
	}
	return sess, nil
}

// LocalAuth is the built-in backend: bcrypt passwords and HS256 tokens.
type LocalAuth struct {
	users  repositories.UserRepository
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewLocalAuth(users repositories.UserRepository, secret string, ttl time.Duration) *LocalAuth {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &LocalAuth{users: users, secret: secret, ttl: ttl, now: time.Now}
}

func (a *LocalAuth) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	const op = "LocalAuth.Login"

	u, err := a.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeUnauthorized, op, "Invalid email or password", nil)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to get user", err)
	}
	if err := utils.CheckPassword(u.PasswordHash, req.Password); err != nil {
		return nil, utils.E(utils.CodeUnauthorized, op, "Invalid email or password", nil)
	}
	return a.issue(op, u)
}

func (a *LocalAuth) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	const op = "LocalAuth.Register"

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || len(req.Password) < 8 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name, email and a password of at least 8 characters are required", nil)
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{Name: strings.TrimSpace(req.Name), Email: req.Email, PasswordHash: hash}
	if err := a.users.Create(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "Email is already registered", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}
	return a.issue(op, u)
}

func (a *LocalAuth) issue(op string, u *models.User) (*models.AuthResponse, error) {
	tok, _, err := utils.IssueToken(a.secret, u.ID, u.Email, a.ttl, a.now())
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	out := *u
	out.PasswordHash = ""
	return &models.AuthResponse{User: out, AccessToken: tok}, nil
}
