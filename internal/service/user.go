package service

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/activity-planner/internal/auth"
	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
	"github.com/Shivanand-hulikatti/activity-planner/internal/repository"
)

// UserService handles accounts and authentication.
type UserService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewUserService constructs a UserService.
func NewUserService(users UserStore, hasher PasswordHasher, tokens TokenIssuer) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// ListUsers returns all users.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// GetUser returns the user with id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, notFound("User id does not exist"))
	}
	return u, nil
}

// GetUserByEmail returns the user with email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, orNotFound(err, notFound("Email does not exist"))
	}
	return u, nil
}

// Authenticate checks the credentials and issues a token on success.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, orNotFound(err, notFound("User with email %s not found", email))
	}
	if err := s.hasher.Compare(u.Password, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, errIncorrectPassword
		}
		return nil, err
	}

	token, err := s.tokens.Issue(u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{
		Message:  "Authentication successful",
		Token:    token,
		Email:    u.Email,
		FullName: u.FullName(),
		Role:     u.Role,
	}, nil
}

// CreateUser registers a new account. Guests also get a participant record
// under their full name and email, stored together with the account.
func (s *UserService) CreateUser(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, errEmailExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user, err := model.NewUser(model.User{
		Name:       req.Name,
		FamilyName: req.FamilyName,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
	})
	if err != nil {
		return nil, err
	}
	if user.Password, err = s.hash(user.Password); err != nil {
		return nil, err
	}

	var created *model.User
	if user.Role == model.RoleGuest {
		var p *model.Participant
		if p, err = guestParticipant(user); err != nil {
			return nil, err
		}
		created, err = s.users.CreateGuest(ctx, user, p)
	} else {
		created, err = s.users.Create(ctx, user)
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, errEmailExists
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

// guestParticipant is the participant record that links a guest account to
// its enrollments.
func guestParticipant(u *model.User) (*model.Participant, error) {
	return model.NewParticipant(model.Participant{Name: u.FullName(), Email: u.Email})
}

// UpdateUser merges patch over the user with email. A supplied password is
// hashed before it is stored. When the result is a guest, the participant
// record follows the account's name and email so enrollments stay visible.
func (s *UserService) UpdateUser(ctx context.Context, email string, patch model.UserPatch) (*model.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, orNotFound(err, notFound("User does not exist"))
	}

	if patch.Email != nil && *patch.Email != existing.Email {
		if _, err := s.users.GetByEmail(ctx, *patch.Email); err == nil {
			return nil, errEmailExists
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	// Validate against the plaintext first so a blank password is rejected
	// rather than hashed.
	merged, err := model.NewUser(patch.Apply(*existing))
	if err != nil {
		return nil, err
	}
	if patch.Password != nil {
		if merged.Password, err = s.hash(merged.Password); err != nil {
			return nil, err
		}
	}

	var updated *model.User
	if merged.Role == model.RoleGuest {
		var p *model.Participant
		if p, err = guestParticipant(merged); err != nil {
			return nil, err
		}
		updated, err = s.users.UpdateGuest(ctx, existing.ID, merged, existing.Email, p)
	} else {
		updated, err = s.users.Update(ctx, existing.ID, merged)
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, errEmailExists
	}
	if err != nil {
		return nil, orNotFound(err, notFound("User does not exist"))
	}
	return updated, nil
}

// DeleteUser removes the user with id.
func (s *UserService) DeleteUser(ctx context.Context, id int64) (*model.User, error) {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, orNotFound(err, notFound("User id does not exist"))
	}
	u, err := s.users.Delete(ctx, id)
	if errors.Is(err, repository.ErrReferenced) {
		return nil, conflict("User still organizes activities")
	}
	if err != nil {
		return nil, orNotFound(err, notFound("User id does not exist"))
	}
	return u, nil
}

func (s *UserService) hash(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", &model.ValidationError{Field: "password", Message: "Password cannot be longer than 72 bytes"}
	}
	return hash, err
}
