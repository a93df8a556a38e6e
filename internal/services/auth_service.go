package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentmatch/internal/models"
	mongorepo "github.com/yoockh/talentmatch/internal/repositories/mongo"
	pgrepo "github.com/yoockh/talentmatch/internal/repositories/postgres"
	"github.com/yoockh/talentmatch/internal/utils"
)

type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
}

type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      models.Identity `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, username, password, userAgent, ip string) (*LoginResult, error)
	// Authenticate verifies a token and that its session is still open.
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
	Logout(ctx context.Context, sessionID string) error
}

type authService struct {
	users    pgrepo.UserRepository
	sessions mongorepo.SessionRepository
	cfg      TokenConfig
	log      *logrus.Logger
	now      func() time.Time
}

func NewAuthService(users pgrepo.UserRepository, sessions mongorepo.SessionRepository, cfg TokenConfig, log *logrus.Logger) AuthService {
	return &authService{users: users, sessions: sessions, cfg: cfg, log: log, now: time.Now}
}

var errBadCredentials = errors.New("bad credentials")

func (s *authService) Login(ctx context.Context, username, password, userAgent, ip string) (*LoginResult, error) {
	const op = "AuthService.Login"

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "username and password are required", nil)
	}

	u, err := s.users.GetByAccount(ctx, username)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeUnauthorized, op, "invalid username or password", errBadCredentials)
		}
		return nil, utils.StoreUnavailable(op, "failed to load user", err)
	}
	if !utils.PasswordMatches(u.PasswordHash, password) {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid username or password", errBadCredentials)
	}
	if !u.IsActive {
		return nil, utils.E(utils.CodeForbidden, op, "account is disabled", nil)
	}

	now := s.now().UTC()
	sess := &models.LoginSession{
		SessionID: uuid.NewString(),
		UserID:    u.ID,
		Username:  u.Account,
		Role:      u.Role(),
		UserAgent: userAgent,
		IP:        ip,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, utils.StoreUnavailable(op, "failed to create session", err)
	}

	token, err := s.sign(sess)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to sign token", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": u.ID, "session_id": sess.SessionID}).Info("login")
	return &LoginResult{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		User:      models.Identity{UserID: u.ID, Username: u.Account, Role: u.Role(), SessionID: sess.SessionID},
	}, nil
}

func (s *authService) sign(sess *models.LoginSession) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(sess.UserID, 10),
			ID:        sess.SessionID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
		Username: sess.Username,
		Role:     sess.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

func (s *authService) Authenticate(ctx context.Context, raw string) (*models.Identity, error) {
	const op = "AuthService.Authenticate"

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "missing token", nil)
	}

	claims := &sessionClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil || tok == nil || !tok.Valid {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid token", err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 || claims.ID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid token subject", err)
	}

	sess, err := s.sessions.GetBySessionID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeUnauthorized, op, "session expired", err)
		}
		return nil, utils.StoreUnavailable(op, "failed to load session", err)
	}
	if !sess.Active(s.now()) || sess.UserID != userID {
		return nil, utils.E(utils.CodeUnauthorized, op, "session expired", nil)
	}

	return &models.Identity{UserID: userID, Username: sess.Username, Role: sess.Role, SessionID: sess.SessionID}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	const op = "AuthService.Logout"

	if sessionID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	err := s.sessions.End(ctx, sessionID, s.now())
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return utils.StoreUnavailable(op, "failed to end session", err)
	}
	return nil
}
