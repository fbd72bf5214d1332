package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/yeremiapane/restaurant-ordering/database"
	"github.com/yeremiapane/restaurant-ordering/models"
	"github.com/yeremiapane/restaurant-ordering/utils"
	"golang.org/x/crypto/bcrypt"
)

type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	CreateProfile(ctx context.Context, p *models.Profile) error
}

// AuthService signs accounts in and out and resolves sessions from tokens.
type AuthService struct {
	store     ProfileStore
	signer    *utils.TokenSigner
	blacklist *utils.TokenBlacklist

	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewAuthService(store ProfileStore, signer *utils.TokenSigner, blacklist *utils.TokenBlacklist) *AuthService {
	return &AuthService{
		store:     store,
		signer:    signer,
		blacklist: blacklist,
		sessions:  make(map[string]*Session),
		now:       time.Now,
	}
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name"`
}

// SignUp creates a customer account. Back-office roles are granted by an admin.
func (a *AuthService) SignUp(ctx context.Context, req SignUpRequest) (*models.Profile, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, invalid("email", "is required")
	}
	if len(req.Password) < 6 {
		return nil, invalid("password", "must be at least 6 characters")
	}
	if _, err := a.store.GetProfileByEmail(ctx, req.Email); err == nil {
		return nil, invalid("email", "is already registered")
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	profile := &models.Profile{
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         models.RoleCustomer,
		PasswordHash: string(hashed),
	}
	if err := a.store.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SignIn returns a signed token together with its resolved session.
func (a *AuthService) SignIn(ctx context.Context, email, password string) (string, *Session, error) {
	profile, err := a.store.GetProfileByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return "", nil, ErrInvalidCredential
	}
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredential
	}

	token, err := a.signer.GenerateToken(profile.ID, string(profile.Role))
	if err != nil {
		return "", nil, err
	}
	claims, err := a.signer.ParseToken(token)
	if err != nil {
		return "", nil, err
	}
	sess := &Session{
		UserID:    profile.ID,
		Email:     profile.Email,
		Role:      profile.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	a.mu.Lock()
	a.sessions[token] = sess
	a.mu.Unlock()

	utils.InfoLogger.WithField("user_id", profile.ID).Info("user signed in")
	return token, sess, nil
}

func (a *AuthService) SignOut(token string) {
	a.mu.Lock()
	sess, ok := a.sessions[token]
	delete(a.sessions, token)
	a.mu.Unlock()

	expiry := a.now().Add(24 * time.Hour)
	if ok {
		expiry = sess.ExpiresAt
	} else if claims, err := a.signer.ParseToken(token); err == nil {
		expiry = claims.ExpiresAt.Time
	}
	a.blacklist.Add(token, expiry)
}

// CurrentSession resolves a token. The role is read from profiles the first
// time a token is seen and cached with the session afterwards.
func (a *AuthService) CurrentSession(ctx context.Context, token string) (*Session, error) {
	if token == "" || a.blacklist.Contains(token) {
		return nil, ErrUnauthenticated
	}

	a.mu.Lock()
	sess, ok := a.sessions[token]
	a.mu.Unlock()
	if ok {
		if a.now().Before(sess.ExpiresAt) {
			return sess, nil
		}
		a.forget(token)
		return nil, ErrUnauthenticated
	}

	claims, err := a.signer.ParseToken(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	profile, err := a.store.GetProfile(ctx, claims.UserID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	sess = &Session{
		UserID:    profile.ID,
		Email:     profile.Email,
		Role:      profile.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	a.mu.Lock()
	a.sessions[token] = sess
	a.mu.Unlock()
	return sess, nil
}

// Invalidate drops cached sessions of a user, e.g. after a role change.
func (a *AuthService) Invalidate(userID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for token, sess := range a.sessions {
		if sess.UserID == userID {
			delete(a.sessions, token)
		}
	}
}

// Sweep removes expired cached sessions and blacklist entries.
func (a *AuthService) Sweep() {
	now := a.now()
	a.mu.Lock()
	for token, sess := range a.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(a.sessions, token)
		}
	}
	a.mu.Unlock()
	a.blacklist.Cleanup()
}

func (a *AuthService) forget(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}
