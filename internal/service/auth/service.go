package auth

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutorbase/billing-backend-go/internal/domain/auth"
	"github.com/tutorbase/billing-backend-go/internal/domain/company"
	"github.com/tutorbase/billing-backend-go/internal/pkg/database"
	"github.com/tutorbase/billing-backend-go/internal/pkg/jwt"
	"github.com/tutorbase/billing-backend-go/internal/repository/postgresql"
)

type AuthServiceImpl struct {
	db          *database.DB
	companyRepo company.Repository
	jwtService  jwt.Service
	jwtRepo     postgresql.JWTRepository
}

func NewAuthService(db *database.DB, companyRepo company.Repository, jwtService jwt.Service, jwtRepo postgresql.JWTRepository) auth.AuthService {
	return &AuthServiceImpl{
		db:          db,
		companyRepo: companyRepo,
		jwtService:  jwtService,
		jwtRepo:     jwtRepo,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse

	admin, err := a.companyRepo.GetAdminByEmail(ctx, req.Email)
	if err != nil {
		if err == company.ErrAdminNotFound {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get admin by email: %w", err)
	}

	if admin.PasswordHash == "" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	err = postgresql.WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.jwtService.GenerateAccessToken(admin.ID, admin.Email, admin.CompanyCode)
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.jwtService.GenerateRefreshToken(admin.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		if err := a.jwtRepo.CreateRefreshToken(txCtx, admin.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn); err != nil {
			return fmt.Errorf("failed to save refresh token: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	token, err := jwtauth.VerifyToken(a.jwtService.JWTAuth(), req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "refresh" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	adminID, isRevoked, err := a.jwtRepo.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	claimedID, _ := claims["admin_id"].(string)
	if claimedID == "" || claimedID != adminID {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	admin, err := a.companyRepo.GetAdminByID(ctx, adminID)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.jwtService.GenerateAccessToken(admin.ID, admin.Email, admin.CompanyCode)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return resp, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	_, isRevoked, err := a.jwtRepo.IsRefreshTokenRevoked(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("failed to check refresh token: %w", err)
	}
	if !isRevoked {
		if err := a.jwtRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
	}
	return nil
}
