package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/workbridge/erp-backend-go/internal/domain/auth"
	"github.com/workbridge/erp-backend-go/internal/domain/company"
	"github.com/workbridge/erp-backend-go/internal/domain/settings"
	"github.com/workbridge/erp-backend-go/internal/domain/user"
	"github.com/workbridge/erp-backend-go/internal/pkg/database"
	"github.com/workbridge/erp-backend-go/internal/pkg/jwt"
	"github.com/workbridge/erp-backend-go/internal/repository/postgresql"
)

// Service handles tenant registration and credential flows.
type Service interface {
	Register(ctx context.Context, req auth.RegisterRequest) (auth.LoginResponse, error)
	Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPairResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type AuthServiceImpl struct {
	db *database.DB
	user.Repository
	companyRepo  company.Repository
	settingsRepo settings.Repository
	jwtService   jwt.Service
}

func NewAuthService(
	db *database.DB,
	userRepo user.Repository,
	companyRepo company.Repository,
	settingsRepo settings.Repository,
	jwtService jwt.Service,
) Service {
	return &AuthServiceImpl{
		db:           db,
		Repository:   userRepo,
		companyRepo:  companyRepo,
		settingsRepo: settingsRepo,
		jwtService:   jwtService,
	}
}

// Register implements Service. It creates the company, its default
// settings and the first admin user atomically.
func (s *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var admin user.User
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		_, err := s.companyRepo.GetBySlug(txCtx, req.CompanySlug)
		if err == nil {
			return company.ErrSlugExists
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to check company slug: %w", err)
		}

		newCompany, err := s.companyRepo.Create(txCtx, company.Company{
			Name:     req.CompanyName,
			Slug:     req.CompanySlug,
			Currency: "USD",
		})
		if err != nil {
			return fmt.Errorf("failed to create company: %w", err)
		}

		if err := s.settingsRepo.Upsert(txCtx, settings.Defaults(newCompany.ID)); err != nil {
			return fmt.Errorf("failed to seed company settings: %w", err)
		}

		admin, err = s.Repository.Create(txCtx, user.User{
			CompanyID:    newCompany.ID,
			Email:        req.Email,
			PasswordHash: string(passwordHash),
			FullName:     req.FullName,
			Role:         user.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		return nil
	})
	if err != nil {
		return auth.LoginResponse{}, err
	}

	slog.Info("Company registered", "company_id", admin.CompanyID, "admin_id", admin.ID)

	return s.buildLoginResponse(admin)
}

// Login implements Service.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	u, err := s.Repository.GetByEmailAnyCompany(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !u.IsActive {
		return auth.LoginResponse{}, user.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	return s.buildLoginResponse(u)
}

// Refresh implements Service. A valid, unrevoked refresh token yields
// a fresh token pair; the used token is revoked (rotation).
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.TokenPairResponse, error) {
	if s.jwtService.IsTokenRevoked(refreshToken) {
		return auth.TokenPairResponse{}, auth.ErrRefreshTokenRevoked
	}

	token, err := s.jwtService.JWTAuth().Decode(refreshToken)
	if err != nil {
		return auth.TokenPairResponse{}, auth.ErrInvalidToken
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "refresh" {
		return auth.TokenPairResponse{}, auth.ErrInvalidToken
	}
	userIDVal, ok := token.Get("user_id")
	if !ok {
		return auth.TokenPairResponse{}, auth.ErrInvalidToken
	}
	userID, ok := userIDVal.(string)
	if !ok {
		return auth.TokenPairResponse{}, auth.ErrInvalidToken
	}

	u, err := s.Repository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.TokenPairResponse{}, auth.ErrInvalidToken
		}
		return auth.TokenPairResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !u.IsActive {
		return auth.TokenPairResponse{}, user.ErrUserInactive
	}

	s.jwtService.RevokeToken(refreshToken)

	return s.buildTokenPair(u)
}

// Logout implements Service.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		s.jwtService.RevokeToken(refreshToken)
	}
	return nil
}

func (s *AuthServiceImpl) buildTokenPair(u user.User) (auth.TokenPairResponse, error) {
	accessToken, accessExp, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.CompanyID, u.Role)
	if err != nil {
		return auth.TokenPairResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, refreshExp, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenPairResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return auth.TokenPairResponse{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *AuthServiceImpl) buildLoginResponse(u user.User) (auth.LoginResponse, error) {
	pair, err := s.buildTokenPair(u)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	return auth.LoginResponse{
		UserID:            u.ID,
		CompanyID:         u.CompanyID,
		FullName:          u.FullName,
		Role:              string(u.Role),
		TokenPairResponse: pair,
	}, nil
}
