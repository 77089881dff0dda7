package service

import (
	"errors"
	"regexp"
	"time"

	"geochat/internal/entity"
	"geochat/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(username, password string) error
	// Login returns the public user and a signed token on success. Unknown
	// user and wrong password are deliberately indistinguishable.
	Login(username, password string) (*entity.User, string, error)
}

type localAuthService struct {
	users           repository.UserRepository
	usernamePattern *regexp.Regexp
	tokenSecret     []byte
	tokenTTL        time.Duration
	logger          *zap.SugaredLogger
}

func NewAuthService(users repository.UserRepository, usernamePattern *regexp.Regexp, tokenSecret []byte, logger *zap.SugaredLogger) AuthService {
	return &localAuthService{
		users:           users,
		usernamePattern: usernamePattern,
		tokenSecret:     tokenSecret,
		tokenTTL:        7 * 24 * time.Hour,
		logger:          logger,
	}
}

func (a *localAuthService) Register(username, password string) error {
	if username == "" || password == "" {
		return ErrInvalidInput
	}
	if !a.usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}

	_, err := a.users.GetByUsername(username)
	if err == nil {
		return ErrConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &entity.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := a.users.Create(user); err != nil {
		// Two registrations can race past the lookup; the unique index on
		// username decides, and the loser reports the same conflict.
		if _, lookupErr := a.users.GetByUsername(username); lookupErr == nil {
			return ErrConflict
		}
		a.logger.Errorw("user insert failed", "username", username, "error", err)
		return err
	}
	a.logger.Infow("user registered", "username", username)
	return nil
}

func (a *localAuthService) Login(username, password string) (*entity.User, string, error) {
	if username == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := a.users.GetByUsername(username)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.signToken(username)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (a *localAuthService) signToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.tokenSecret)
}

// ParseToken validates a token produced by Login and returns its username.
func ParseToken(tokenString string, secret []byte) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.Subject, nil
}
