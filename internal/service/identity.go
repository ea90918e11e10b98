package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/avelin/recordkeep/internal/auth"
	"github.com/avelin/recordkeep/internal/domain"
)

const minPasswordLength = 6

// IdentityService orchestrates registration, login, token validation, and
// revocation over the password hasher, the token codec, and the user store.
// It holds no state of its own beyond its collaborators.
type IdentityService struct {
	users  domain.UserRepository
	hasher *auth.PasswordHasher
	codec  *auth.TokenCodec
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(users domain.UserRepository, hasher *auth.PasswordHasher, codec *auth.TokenCodec) *IdentityService {
	return &IdentityService{users: users, hasher: hasher, codec: codec}
}

// Register creates a new user account and issues its first session token.
func (s *IdentityService) Register(ctx context.Context, email, password string) (*domain.User, string, error) {
	email, err := validateEmail(email)
	if err != nil {
		return nil, "", err
	}
	if len(password) < minPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and issues a new session token. Unknown email
// and wrong password fail identically so callers cannot enumerate accounts.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrUnauthorized
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, "", domain.ErrUnauthorized
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a presented token to its user. The token must both
// verify cryptographically and still be present in the user's token list;
// any failure is reported as ErrUnauthorized.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if claims.Access != domain.AccessAuth {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByIDAndToken(ctx, claims.Subject, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user by token: %w", err)
	}
	return user, nil
}

// Logout revokes a single session token. Revoking a token that was already
// removed is not an error.
func (s *IdentityService) Logout(ctx context.Context, userID, token string) error {
	if err := s.users.RemoveToken(ctx, userID, token); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// LogoutAll revokes every session token the user holds.
func (s *IdentityService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.users.RemoveAllTokens(ctx, userID); err != nil {
		return fmt.Errorf("remove tokens: %w", err)
	}
	return nil
}

// ChangePassword re-hashes and stores a new password after verifying the
// current one. Existing session tokens stay valid.
func (s *IdentityService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len(next) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUnauthorized
		}
		return fmt.Errorf("get user: %w", err)
	}

	ok, err := s.hasher.Verify(current, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return domain.ErrUnauthorized
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// issueToken signs a new auth token and records it in the user's token list
// before returning it.
func (s *IdentityService) issueToken(ctx context.Context, user *domain.User) (string, error) {
	token, err := s.codec.Sign(user.ID, domain.AccessAuth)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	entry := domain.TokenEntry{Access: domain.AccessAuth, Token: token}
	if err := s.users.AppendToken(ctx, user.ID, entry); err != nil {
		return "", fmt.Errorf("append token: %w", err)
	}

	user.Tokens = append(user.Tokens, entry)
	return token, nil
}

func validateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if len(email) < 3 {
		return "", fmt.Errorf("%w: email must be at least 3 characters", domain.ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}
	return email, nil
}
