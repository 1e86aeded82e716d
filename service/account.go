package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"productcatalog/models"
	"productcatalog/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type Accounts struct {
	users   repository.UserRepository
	tokens  TokenIssuer
	log     *logrus.Logger
	cost    int
	timeout time.Duration

	// dummyHash is compared against on unknown emails so both login
	// failures cost one bcrypt comparison at the configured cost.
	dummyHash []byte
	compare   func(hash, password []byte) error
}

func NewAccounts(users repository.UserRepository, tokens TokenIssuer, log *logrus.Logger, bcryptCost int, timeout time.Duration) *Accounts {
	dummy, err := bcrypt.GenerateFromPassword([]byte("catalog-login-placeholder"), bcryptCost)
	if err != nil {
		log.WithError(err).Warn("bcrypt cost rejected for login placeholder hash, using default cost")
		dummy, _ = bcrypt.GenerateFromPassword([]byte("catalog-login-placeholder"), bcrypt.DefaultCost)
	}
	return &Accounts{
		users:     users,
		tokens:    tokens,
		log:       log,
		cost:      bcryptCost,
		timeout:   timeout,
		dummyHash: dummy,
		compare:   bcrypt.CompareHashAndPassword,
	}
}

// Signup hashes the password and stores a new user.
func (a *Accounts) Signup(ctx context.Context, creds models.Credentials) (*models.User, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, models.ErrMissingCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(creds.Password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	user := &models.User{Email: email, PasswordHash: string(hashed)}
	if err := a.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	a.log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// Login returns an access token. Unknown email and wrong password both
// yield models.ErrInvalidCredentials.
func (a *Accounts) Login(ctx context.Context, creds models.Credentials) (string, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return "", models.ErrMissingCredentials
	}

	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	user, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		_ = a.compare(a.dummyHash, []byte(creds.Password))
		a.log.Debug("login rejected: unknown email")
		return "", models.ErrInvalidCredentials
	}

	if err := a.compare([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		a.log.WithField("user_id", user.ID).Debug("login rejected: password mismatch")
		return "", models.ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", err
	}

	a.log.WithField("user_id", user.ID).Info("user logged in")
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
