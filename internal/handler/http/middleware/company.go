package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/tutorbase/billing-backend-go/internal/domain/auth"
	"github.com/tutorbase/billing-backend-go/internal/handler/http/response"
)

// CompanyCode extracts the caller's company_code claim. Every billing route
// is scoped to the caller's own company, so a token without the claim is
// useless here.
func CompanyCode(r *http.Request) (string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", auth.ErrInvalidToken
	}

	companyCode, ok := claims["company_code"].(string)
	if !ok || companyCode == "" {
		return "", auth.ErrMissingCompanyClaim
	}

	return companyCode, nil
}

// RequireCompany rejects tokens that carry no company_code claim before the
// handler runs.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := CompanyCode(r); err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
