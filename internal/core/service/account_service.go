package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/accounts-api/internal/core/domain"
	"github.com/userhub/accounts-api/internal/core/ports"
)

// PageSize is the fixed number of users per listing page.
const PageSize = 10

// maxPage is the last page whose offset fits in an int.
const maxPage = math.MaxInt/PageSize + 1

// AccountService implements registration, login and self-service profile
// management on top of the credential store.
type AccountService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	cache  ports.ProfileCache
	logger zerolog.Logger
}

// NewAccountService wires the service. cache may be nil.
func NewAccountService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	cache ports.ProfileCache,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		cache:  cache,
		logger: logger,
	}
}

// Register creates a regular, active account and returns its first token.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, domain.ErrMissingData
	}
	if !domain.ValidEmail(in.Email) {
		return nil, domain.ErrInvalidEmail
	}
	if len(in.Password) > domain.MaxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}

	_, err := s.repo.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, domain.ErrEmailExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	token, err := s.tokens.Issue(in.Email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Token:        token,
		Role:         domain.RoleRegular,
		Active:       domain.ActiveDefault,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")

	return &ports.AuthResult{
		Token:  token,
		ID:     created.ID,
		Role:   created.Role,
		Active: created.Active,
	}, nil
}

// Login checks credentials and rotates the account token. The previous token
// stops working as soon as the new one is stored.
func (s *AccountService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrMissingData
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnknownEmail
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.passwordMatches(in.Password, user) {
		return nil, domain.ErrBadCredentials
	}

	token, err := s.tokens.Issue(in.Email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := s.repo.SetToken(ctx, user.ID, token); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")

	return &ports.AuthResult{
		Token:  token,
		ID:     user.ID,
		Role:   user.Role,
		Active: user.Active,
	}, nil
}

// GetSelf resolves the bearer token to the account it currently belongs to.
func (s *AccountService) GetSelf(ctx context.Context, token string) (*domain.UserView, error) {
	if token == "" {
		return nil, domain.ErrMissingToken
	}
	if _, err := s.tokens.Verify(token); err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrNoSuchUser
		}
		return nil, fmt.Errorf("get self: %w", err)
	}

	view := user.SelfView()
	return &view, nil
}

// ListUsers returns one page of users with email and token stripped.
func (s *AccountService) ListUsers(ctx context.Context, page int) (*ports.UserPage, error) {
	if page < 1 {
		page = 1
	}

	// Pages past maxPage cannot hold users and would overflow the offset;
	// querying maxPage still yields the total with an empty slice.
	query := page
	if query > maxPage {
		query = maxPage
	}

	users, total, err := s.repo.List(ctx, query, PageSize)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	views := make([]domain.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.ListView())
	}

	return &ports.UserPage{
		Page:       page,
		PagesCount: int((total + PageSize - 1) / PageSize),
		Total:      total,
		Users:      views,
	}, nil
}

// GetUser returns the public profile of one account.
func (s *AccountService) GetUser(ctx context.Context, id string) (*domain.UserView, error) {
	if cached := s.cachedProfile(ctx, id); cached != nil {
		return cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrNoSuchUser
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	view := user.ProfileView()
	s.fillProfile(ctx, id, view)
	return &view, nil
}

// UpdateSelf applies a profile edit for the owner of id. Role and active can
// never be changed here; a password in the patch is re-hashed.
func (s *AccountService) UpdateSelf(ctx context.Context, in ports.UpdateSelfInput) (*domain.UserView, error) {
	if in.Patch.IsEmpty() {
		return nil, domain.ErrEmptyPatch
	}
	if in.Token == "" {
		return nil, domain.NewError(domain.ErrForbidden, "Invalid token or id")
	}

	target, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrNoSuchUser
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if in.Patch.Email != nil {
		if !domain.ValidEmail(*in.Patch.Email) {
			return nil, domain.NewError(domain.ErrValidation, "Invalid email format")
		}
		owner, err := s.repo.FindByEmail(ctx, *in.Patch.Email)
		switch {
		case err == nil && owner.ID != target.ID:
			return nil, domain.ErrEmailOwned
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("update user: %w", err)
		}
	}

	if in.Patch.Role != nil {
		return nil, domain.NewError(domain.ErrForbidden, "Cannot update role by user")
	}
	if in.Patch.Active != nil {
		return nil, domain.NewError(domain.ErrForbidden, "Cannot update active by user")
	}

	update := ports.UserUpdate{Email: in.Patch.Email}
	if in.Patch.Name != nil {
		if *in.Patch.Name == "" {
			return nil, domain.NewError(domain.ErrValidation, "Name must not be empty")
		}
		update.Name = in.Patch.Name
	}
	if in.Patch.Password != nil {
		if *in.Patch.Password == "" {
			return nil, domain.NewError(domain.ErrValidation, "Password must not be empty")
		}
		if len(*in.Patch.Password) > domain.MaxPasswordBytes {
			return nil, domain.ErrPasswordTooLong
		}
		hash, err := s.hasher.Hash(*in.Patch.Password)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		update.PasswordHash = &hash
	}

	if _, err := s.tokens.Verify(in.Token); err != nil {
		return nil, domain.ErrTokenIDMismatch
	}

	updated, err := s.repo.UpdateByIDAndToken(ctx, target.ID, in.Token, update)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenIDMismatch
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.invalidate(ctx, updated.ID)
	s.logger.Info().Str("user_id", updated.ID).Msg("user updated")

	view := updated.SelfView()
	return &view, nil
}

// DeleteSelf removes the account when token and password both belong to it.
func (s *AccountService) DeleteSelf(ctx context.Context, in ports.DeleteSelfInput) error {
	if in.Password == "" {
		return domain.NewError(domain.ErrValidation, "Please enter all data")
	}
	if in.Token == "" {
		return domain.NewError(domain.ErrForbidden, "Invalid token or password")
	}

	target, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrNoSuchUser
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if _, err := s.tokens.Verify(in.Token); err != nil {
		return domain.ErrTokenPassword
	}

	owner, err := s.repo.FindByIDAndToken(ctx, target.ID, in.Token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrTokenPassword
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if !s.passwordMatches(in.Password, owner) {
		return domain.ErrWrongPassword
	}

	if err := s.repo.DeleteByIDAndToken(ctx, owner.ID, in.Token); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrTokenPassword
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.invalidate(ctx, owner.ID)
	s.logger.Info().Str("user_id", owner.ID).Msg("user deleted")
	return nil
}

// passwordMatches treats an unreadable stored hash as a mismatch.
func (s *AccountService) passwordMatches(plain string, user *domain.User) bool {
	ok, err := s.hasher.Compare(plain, user.PasswordHash)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("stored password hash unreadable")
		return false
	}
	return ok
}

func (s *AccountService) cachedProfile(ctx context.Context, id string) *domain.UserView {
	if s.cache == nil {
		return nil
	}
	view, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", id).Msg("profile cache lookup failed")
		return nil
	}
	return view
}

// fillProfile caches view, then re-reads the record. An update or delete that
// committed between the first read and the Set has already run its
// invalidation, so the stale entry is dropped here instead.
func (s *AccountService) fillProfile(ctx context.Context, id string, view domain.UserView) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, id, view); err != nil {
		s.logger.Warn().Err(err).Str("user_id", id).Msg("failed to cache profile")
		return
	}

	current, err := s.repo.FindByID(ctx, id)
	if err == nil && current.ProfileView() == view {
		return
	}
	s.invalidate(ctx, id)
}

func (s *AccountService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("user_id", id).Msg("failed to invalidate cached profile")
	}
}
