package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pressforge/core/internal/models"
	jwtpkg "github.com/pressforge/core/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 30 * 24 * time.Hour

// DefaultAdminCapabilities is granted to the first registered user.
var DefaultAdminCapabilities = []string{"manage_options", "edit_posts", "upload_files"}

var (
	ErrBadCredentials    = errors.New("invalid username or password")
	ErrAlreadyRegistered = errors.New("admin already registered")
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) GetByID(ctx context.Context, id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Login checks the password and signs a capability-bearing token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.UserModel, error) {
	var u models.UserModel
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrBadCredentials
	}
	token, err := jwtpkg.Sign(u.ID, u.Capabilities, tokenTTL)
	return token, &u, err
}

// Register creates the first admin user. Further registrations are rejected;
// additional users are provisioned by an admin.
func (s *Service) Register(ctx context.Context, username, password, displayName string) (*models.UserModel, error) {
	var count int64
	s.db.WithContext(ctx).Model(&models.UserModel{}).Count(&count)
	if count > 0 {
		return nil, ErrAlreadyRegistered
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if displayName == "" {
		displayName = username
	}
	u := models.UserModel{
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Capabilities: DefaultAdminCapabilities,
	}
	return &u, s.db.WithContext(ctx).Create(&u).Error
}

// IsRegistered reports whether any user exists yet.
func (s *Service) IsRegistered(ctx context.Context) bool {
	var count int64
	s.db.WithContext(ctx).Model(&models.UserModel{}).Count(&count)
	return count > 0
}

// ChangePassword verifies the old password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, id, oldPwd, newPwd string) error {
	var u models.UserModel
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPwd)); err != nil {
		return fmt.Errorf("wrong password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&u).Update("password_hash", string(hash)).Error
}

// GrantCapability adds one capability to a user if not already held.
func (s *Service) GrantCapability(ctx context.Context, id, capability string) (*models.UserModel, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}
	if u.HasCapability(capability) {
		return u, nil
	}
	u.Capabilities = u.Capabilities.With(capability)
	return u, s.db.WithContext(ctx).Model(u).Update("capabilities", u.Capabilities).Error
}
