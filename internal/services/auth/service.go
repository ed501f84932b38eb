package auth

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"

	"comercio-backend/internal/database/models"
	"comercio-backend/internal/utils"
)

const (
	bcryptCost = 12
	tokenTTL   = 7 * 24 * time.Hour
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInvalidGoogleToken = errors.New("invalid google token")
)

type Service struct {
	db             *gorm.DB
	log            *logrus.Logger
	jwtSecret      []byte
	googleClientID string
}

func NewService(db *gorm.DB, log *logrus.Logger, jwtSecret, googleClientID string) *Service {
	return &Service{
		db:             db,
		log:            log,
		jwtSecret:      []byte(jwtSecret),
		googleClientID: googleClientID,
	}
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      any       `json:"user"`
}

func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    email,
		Password: string(hash),
		Role:     models.UserRoleUser,
		Active:   true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		s.log.WithField("op", "register").Error(err)
		return nil, err
	}
	return &user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrUserInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := utils.GenerateToken(s.jwtSecret, user.ID, user.Email, string(user.Role), tokenTTL)
	if err != nil {
		s.log.WithField("op", "login").Error(err)
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// GoogleSignIn validates the Google ID token against the configured client id
// and upserts the Google account. First sign-in creates the account as BUYER.
func (s *Service) GoogleSignIn(ctx context.Context, rawIDToken string) (*AuthResult, error) {
	payload, err := idtoken.Validate(ctx, rawIDToken, s.googleClientID)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	var account models.GoogleUser
	err = s.db.WithContext(ctx).Where("google_id = ?", payload.Subject).First(&account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		account = models.GoogleUser{
			GoogleID: payload.Subject,
			Email:    email,
			Name:     name,
			TypeUser: models.UserTypeBuyer,
		}
		if picture != "" {
			account.Avatar = &picture
		}
		if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
			s.log.WithField("op", "googleSignIn").Error(err)
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		updates := map[string]interface{}{"email": email, "name": name}
		if picture != "" {
			updates["avatar"] = picture
		}
		if err := s.db.WithContext(ctx).Model(&account).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	token, exp, err := utils.GenerateToken(s.jwtSecret, account.ID, account.Email, string(models.UserRoleUser), tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: account}, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcryptCost)
	if err != nil {
		return err
	}
	now := time.Now()
	return s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"password":            string(hash),
		"password_changed_at": now,
	}).Error
}
