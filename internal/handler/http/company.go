package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tutorbase/billing-backend-go/internal/domain/company"
	"github.com/tutorbase/billing-backend-go/internal/handler/http/middleware"
	"github.com/tutorbase/billing-backend-go/internal/handler/http/response"
)

type CompanyHandler interface {
	Profile(w http.ResponseWriter, r *http.Request)
	ListRoster(w http.ResponseWriter, r *http.Request)
	ListTutors(w http.ResponseWriter, r *http.Request)
	GetTutor(w http.ResponseWriter, r *http.Request)
	SetTutorPricing(w http.ResponseWriter, r *http.Request)
}

type companyHandlerImpl struct {
	companyService company.Service
}

func NewCompanyHandler(companyService company.Service) CompanyHandler {
	return &companyHandlerImpl{companyService: companyService}
}

func (h *companyHandlerImpl) Profile(w http.ResponseWriter, r *http.Request) {
	companyCode, err := middleware.CompanyCode(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	admin, err := h.companyService.GetAdmin(r.Context(), companyCode)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, company.AdminResponse{
		ID:                 admin.ID,
		Name:               admin.Name,
		Email:              admin.Email,
		CompanyCode:        admin.CompanyCode,
		CompanyType:        string(admin.CompanyType),
		LastPayoutDate:     admin.LastPayoutDate,
		SubAccountRef:      admin.SubAccountRef,
		SubscriptionStatus: admin.SubscriptionStatus,
	})
}

func (h *companyHandlerImpl) ListRoster(w http.ResponseWriter, r *http.Request) {
	companyCode, err := middleware.CompanyCode(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.companyService.ListRoster(r.Context(), companyCode)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *companyHandlerImpl) ListTutors(w http.ResponseWriter, r *http.Request) {
	companyCode, err := middleware.CompanyCode(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.companyService.ListTutors(r.Context(), companyCode)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *companyHandlerImpl) GetTutor(w http.ResponseWriter, r *http.Request) {
	companyCode, err := middleware.CompanyCode(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.HandleError(w, company.ErrTutorNotFound)
		return
	}

	result, err := h.companyService.GetTutor(r.Context(), id, companyCode)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *companyHandlerImpl) SetTutorPricing(w http.ResponseWriter, r *http.Request) {
	companyCode, err := middleware.CompanyCode(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.HandleError(w, company.ErrTutorNotFound)
		return
	}

	var req company.SetTutorPricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.TutorID = id

	result, err := h.companyService.SetTutorPricing(r.Context(), companyCode, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tutor pricing updated", result)
}
