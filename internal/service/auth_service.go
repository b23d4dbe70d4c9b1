package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"bizzops/internal/apperror"
	"bizzops/internal/config"
	"bizzops/internal/dto"
	"bizzops/internal/model"
	"bizzops/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.LoginResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Profile(ctx context.Context, ownerID uuid.UUID) (*dto.OwnerResponse, error)
}

type authService struct {
	repo repository.OwnerRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.OwnerRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.LoginResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperror.New(apperror.KindConflict, "an account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Wrap(apperror.KindInternal, "check email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "hash password", err)
	}

	prefix := derivePrefix(req.BusinessName)
	if req.BusinessPrefix != nil && *req.BusinessPrefix != "" {
		prefix = strings.ToUpper(*req.BusinessPrefix)
	}

	owner := &model.Owner{
		Name:           req.Name,
		Email:          strings.ToLower(req.Email),
		PasswordHash:   string(hash),
		BusinessName:   req.BusinessName,
		BusinessPrefix: prefix,
		Phone:          req.Phone,
		Address:        req.Address,
	}
	if err := s.repo.Create(ctx, owner); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "create owner", err)
	}
	return s.loginResponse(owner)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	owner, err := s.repo.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "load owner", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}
	return s.loginResponse(owner)
}

func (s *authService) Profile(ctx context.Context, ownerID uuid.UUID) (*dto.OwnerResponse, error) {
	owner, err := s.repo.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("account not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "load owner", err)
	}
	resp := ownerResponse(owner)
	return &resp, nil
}

func (s *authService) loginResponse(owner *model.Owner) (*dto.LoginResponse, error) {
	token, err := s.signToken(owner)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "sign token", err)
	}
	return &dto.LoginResponse{Token: token, Owner: ownerResponse(owner)}, nil
}

func ownerResponse(owner *model.Owner) dto.OwnerResponse {
	return dto.OwnerResponse{
		ID:             owner.ID.String(),
		Name:           owner.Name,
		Email:          owner.Email,
		BusinessName:   owner.BusinessName,
		BusinessPrefix: owner.BusinessPrefix,
		Phone:          owner.Phone,
		Address:        owner.Address,
		CreatedAt:      owner.CreatedAt.Format(dateTimeFormat),
	}
}

func (s *authService) signToken(owner *model.Owner) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": owner.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

// derivePrefix builds the default invoice prefix from the business name:
// the first three letters, upper-cased ("Acme Traders" → "ACM").
func derivePrefix(businessName string) string {
	var b strings.Builder
	n := 0
	for _, r := range businessName {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
			if n++; n == 3 {
				break
			}
		}
	}
	if n == 0 {
		return "INV"
	}
	return b.String()
}
