package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/khanghh/kattend/internal/database"
	"github.com/khanghh/kattend/model"
	"github.com/khanghh/kattend/params"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ColUserName   = "name"
	ColUserPhone  = "phone"
	ColUserAvatar = "avatar"
)

type CreateUserOptions struct {
	Name       string
	Email      string
	Password   string
	Department string
	Role       model.Role
}

// UpdateProfileOptions carries the profile fields to change, nil fields are left untouched.
type UpdateProfileOptions struct {
	Name   *string
	Phone  *string
	Avatar *string
}

type UserService struct {
	userRepo   UserRepository
	bcryptCost int
}

// NormalizeEmail lower-cases and trims an email so lookups and uniqueness
// are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// dummyHash is compared against when the email matches no account so both
// failure paths spend the same bcrypt work.
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("kattend-dummy-password"), bcrypt.DefaultCost)
	return hash
})

const maxPasswordBytes = 72

func formatEmployeeID(seq int64) string {
	return fmt.Sprintf("%s%04d", params.EmployeeIDPrefix, seq)
}

func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) FindUsersByIDs(ctx context.Context, userIDs []uint) ([]*model.User, error) {
	return s.userRepo.FindByIDs(ctx, userIDs)
}

func (s *UserService) CountUsers(ctx context.Context, roles ...model.Role) (int64, error) {
	return s.userRepo.Count(ctx, roles...)
}

func (s *UserService) checkEmailExist(ctx context.Context, email string) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil {
		return ErrEmailRegistered
	}
	return nil
}

func (s *UserService) CreateUser(ctx context.Context, opts CreateUserOptions) (*model.User, error) {
	email := NormalizeEmail(opts.Email)
	role := opts.Role
	if role == "" {
		role = model.RoleEmployee
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	// bcrypt limit is in bytes, not characters
	if len(opts.Password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	if err := s.checkEmailExist(ctx, email); err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, err
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	for attempt := int64(0); attempt < params.EmployeeIDMaxRetries; attempt++ {
		user := model.User{
			Email:      email,
			Password:   string(passwordHash),
			Name:       strings.TrimSpace(opts.Name),
			Department: strings.TrimSpace(opts.Department),
			Role:       role,
			EmployeeID: formatEmployeeID(count + 1 + attempt),
		}
		err := s.userRepo.Create(ctx, &user)
		if err == nil {
			return &user, nil
		}
		if !database.IsDuplicateKey(err) {
			return nil, err
		}
		// either the email raced with another registration or the employee id collided
		if err := s.checkEmailExist(ctx, email); err != nil {
			return nil, err
		}
	}
	return nil, ErrEmployeeIDExhausted
}

// VerifyCredentials checks email and password. On a wrong password the
// matched user is returned together with ErrInvalidCredentials so callers can
// attribute the failed attempt.
func (s *UserService) VerifyCredentials(ctx context.Context, email string, password string) (*model.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return user, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, opts UpdateProfileOptions) (*model.User, error) {
	updates := map[string]interface{}{}
	if opts.Name != nil {
		updates[ColUserName] = strings.TrimSpace(*opts.Name)
	}
	if opts.Phone != nil {
		updates[ColUserPhone] = strings.TrimSpace(*opts.Phone)
	}
	if opts.Avatar != nil {
		updates[ColUserAvatar] = strings.TrimSpace(*opts.Avatar)
	}
	if len(updates) > 0 {
		if _, err := s.userRepo.Updates(ctx, userID, updates); err != nil {
			return nil, err
		}
	}
	return s.GetUserByID(ctx, userID)
}

func NewUserService(userRepo UserRepository, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}
