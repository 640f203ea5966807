package main

import (
	"fmt"
	"net/http"

	"github.com/tutorbase/billing-backend-go/internal/config"
	appHTTP "github.com/tutorbase/billing-backend-go/internal/handler/http"
	"github.com/tutorbase/billing-backend-go/internal/pkg/database"
	"github.com/tutorbase/billing-backend-go/internal/pkg/jwt"
	"github.com/tutorbase/billing-backend-go/internal/pkg/stripe"
	"github.com/tutorbase/billing-backend-go/internal/repository/postgresql"
	authService "github.com/tutorbase/billing-backend-go/internal/service/auth"
	companyService "github.com/tutorbase/billing-backend-go/internal/service/company"
	payrollService "github.com/tutorbase/billing-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	companyRepo := postgresql.NewCompanyRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	jwtRepo := postgresql.NewJWTRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	stripeClient := stripe.NewClient(cfg.Stripe)

	authSvc := authService.NewAuthService(db, companyRepo, JWTService, jwtRepo)
	companySvc := companyService.NewCompanyService(companyRepo)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, companyRepo, stripeClient)

	authHandler := appHTTP.NewAuthHandler(JWTService, authSvc)
	companyHandler := appHTTP.NewCompanyHandler(companySvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(JWTService, authHandler, companyHandler, payrollHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
