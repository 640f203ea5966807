package auth

import "errors"

var (
	ErrInvalidToken           = errors.New("invalid or missing token")
	ErrTokenExpired           = errors.New("token expired")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrMissingCompanyClaim    = errors.New("company_code claim is missing or invalid")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrRefreshTokenRevoked    = errors.New("refresh token has been revoked")
)
