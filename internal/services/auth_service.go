package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/moritahrk/tabememo/internal/config"
	"github.com/moritahrk/tabememo/internal/dto"
	"github.com/moritahrk/tabememo/internal/models"
	"github.com/moritahrk/tabememo/internal/storage"
	"github.com/moritahrk/tabememo/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	db    *gorm.DB
	cfg   *config.Config
	store *storage.ImageStore
}

func NewAuthService(db *gorm.DB, cfg *config.Config, store *storage.ImageStore) *AuthService {
	return &AuthService{db: db, cfg: cfg, store: store}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	fe := validation.FieldErrors{}
	if req.Email == "" {
		fe["email"] = validation.MsgRequired
	} else if !validation.EmailValid(req.Email) {
		fe["email"] = validation.MsgEmailInvalid
	}
	switch {
	case req.Password == "":
		fe["password"] = validation.MsgRequired
	case !validation.PasswordComplexity(req.Password):
		fe["password"] = validation.MsgPasswordMix
	case validation.PasswordTooSimilar(req.Password, req.Email, req.DisplayName):
		fe["password"] = validation.MsgPasswordSimilar
	}
	if err := fe.OrNil(); err != nil {
		return nil, err
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:          uuid.New(),
		Email:       req.Email,
		Password:    string(hash),
		DisplayName: req.DisplayName,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	s.db.Model(&stored).Update("revoked", true)

	var user models.User
	if err := s.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// ChangeEmail updates the account address after confirming both fields
// match. The current session stays valid.
func (s *AuthService) ChangeEmail(userID uuid.UUID, req *dto.ChangeEmailRequest) (*dto.UserResponse, error) {
	if err := validation.EmailChange(req.Email, req.EmailConfirm).OrNil(); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	var other models.User
	if err := s.db.Where("email = ? AND id <> ?", req.Email, userID).First(&other).Error; err == nil {
		return nil, ErrEmailTaken
	}

	if err := s.db.Model(&user).Update("email", req.Email).Error; err != nil {
		return nil, fmt.Errorf("failed to update email: %w", err)
	}

	return &dto.UserResponse{ID: user.ID, Email: req.Email, DisplayName: user.DisplayName}, nil
}

// ChangePassword verifies the current credential and applies the full rule
// set to the replacement. Nothing is written when any rule fails, and
// existing sessions stay logged in.
func (s *AuthService) ChangePassword(userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}

	fe := validation.FieldErrors{}
	if req.OldPassword == "" {
		fe["old_password"] = validation.MsgRequired
	} else if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)) != nil {
		fe["old_password"] = validation.MsgWrongPassword
	}

	if req.NewPassword1 == "" {
		fe["new_password1"] = validation.MsgRequired
	}
	if req.NewPassword2 == "" {
		fe["new_password2"] = validation.MsgRequired
	} else if req.NewPassword1 != "" && req.NewPassword1 != req.NewPassword2 {
		fe["new_password2"] = validation.MsgMismatch
	}

	if req.NewPassword1 != "" {
		switch {
		case bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.NewPassword1)) == nil:
			fe["new_password1"] = validation.MsgPasswordReuse
		case !validation.PasswordComplexity(req.NewPassword1):
			fe["new_password1"] = validation.MsgPasswordMix
		case validation.PasswordTooSimilar(req.NewPassword1, user.Email, user.DisplayName):
			fe["new_password1"] = validation.MsgPasswordSimilar
		}
	}

	if err := fe.OrNil(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword1), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.Model(&user).Update("password", string(hash)).Error
}

// DeleteAccount removes the user with everything they own: restaurants,
// visits, photos and sessions. Stored photo files are removed after the
// transaction commits.
func (s *AuthService) DeleteAccount(userID uuid.UUID, password string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}

	if password == "" {
		return validation.FieldErrors{"password": validation.MsgRequired}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	var filePaths []string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var restaurantIDs []uuid.UUID
		if err := tx.Model(&models.Restaurant{}).Where("user_id = ?", userID).
			Pluck("id", &restaurantIDs).Error; err != nil {
			return err
		}

		if len(restaurantIDs) > 0 {
			var visitIDs []uuid.UUID
			if err := tx.Model(&models.Visit{}).Where("restaurant_id IN ?", restaurantIDs).
				Pluck("id", &visitIDs).Error; err != nil {
				return err
			}

			if len(visitIDs) > 0 {
				var images []models.VisitImage
				if err := tx.Where("visit_id IN ?", visitIDs).Find(&images).Error; err != nil {
					return err
				}
				for _, img := range images {
					filePaths = append(filePaths, img.Path, img.ThumbPath)
				}
				if err := tx.Where("visit_id IN ?", visitIDs).Delete(&models.VisitImage{}).Error; err != nil {
					return err
				}
				if err := tx.Where("restaurant_id IN ?", restaurantIDs).Delete(&models.Visit{}).Error; err != nil {
					return err
				}
			}

			if err := tx.Exec("DELETE FROM restaurant_tags WHERE restaurant_id IN ?", restaurantIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", userID).Delete(&models.Restaurant{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return err
	}

	if s.store != nil {
		s.store.Remove(filePaths...)
	}
	return nil
}

func (s *AuthService) generateTokenPair(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
		},
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
