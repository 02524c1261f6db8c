package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/internal/domain/repository"
	"github.com/pharmaline/pos-api/pkg/apperror"
	"github.com/pharmaline/pos-api/pkg/pagination"
	"github.com/pharmaline/pos-api/pkg/utils"
)

// UserService handles staff account management
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput holds the fields for a new staff account
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
	Phone     *string
}

// CreateUser registers a new staff member under the given store
func (s *UserService) CreateUser(ctx context.Context, storeID uuid.UUID, input *CreateUserInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A user with this email already exists")
	}

	role := input.Role
	if role == "" {
		role = entity.RoleCashier
	}
	if role != entity.RoleAdmin && role != entity.RoleCashier {
		return nil, apperror.NewBadRequestError("Invalid role")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		StoreID:   storeID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     email,
		Password:  hashed,
		Role:      role,
		Phone:     input.Phone,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a staff member by ID
func (s *UserService) GetUser(ctx context.Context, storeID, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.StoreID != storeID {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// UpdateUserInput holds the mutable staff account fields
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Role      *string
	Phone     *string
}

// UpdateUser updates a staff member's details
func (s *UserService) UpdateUser(ctx context.Context, storeID, id uuid.UUID, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.GetUser(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Role != nil {
		if *input.Role != entity.RoleAdmin && *input.Role != entity.RoleCashier {
			return nil, apperror.NewBadRequestError("Invalid role")
		}
		user.Role = *input.Role
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a staff account
func (s *UserService) DeleteUser(ctx context.Context, storeID, id uuid.UUID) error {
	user, err := s.GetUser(ctx, storeID, id)
	if err != nil {
		return err
	}
	if user.Role == entity.RoleSuperAdmin {
		return apperror.NewBadRequestError("Super admin cannot be deleted")
	}
	return s.userRepo.Delete(ctx, id)
}

// ListUsers lists staff members for a store
func (s *UserService) ListUsers(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.User], error) {
	params.Validate()
	users, total, err := s.userRepo.List(ctx, storeID, params, search)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(users, pag), nil
}
