package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tutorbase/billing-backend-go/internal/domain/payroll"
	"github.com/tutorbase/billing-backend-go/internal/handler/http/middleware"
	"github.com/tutorbase/billing-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	Prepare(w http.ResponseWriter, r *http.Request)
	ChargeStudents(w http.ResponseWriter, r *http.Request)
	PayTutors(w http.ResponseWriter, r *http.Request)
	PayAdmin(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.Service
}

func NewPayrollHandler(payrollService payroll.Service) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) Prepare(w http.ResponseWriter, r *http.Request) {
	companyCode, err := middleware.CompanyCode(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := payroll.PrepareRequest{CompanyCode: companyCode}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.Prepare(r.Context(), req.CompanyCode)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll prepared", result)
}

func (h *payrollHandlerImpl) ChargeStudents(w http.ResponseWriter, r *http.Request) {
	h.runStage(w, r, h.payrollService.ChargeStudents)
}

func (h *payrollHandlerImpl) PayTutors(w http.ResponseWriter, r *http.Request) {
	h.runStage(w, r, h.payrollService.PayTutors)
}

func (h *payrollHandlerImpl) PayAdmin(w http.ResponseWriter, r *http.Request) {
	h.runStage(w, r, h.payrollService.PayAdmin)
}

func (h *payrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownedPayroll(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, p)
}

func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	companyCode, err := middleware.CompanyCode(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := payroll.ListFilter{CompanyCode: companyCode}
	switch r.URL.Query().Get("status") {
	case "open":
		filter.OnlyOpen = true
	case "completed":
		filter.OnlyCompleted = true
	}

	result, err := h.payrollService.ListByCompany(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// runStage verifies the payroll belongs to the caller's company, then
// executes one payout stage against it.
func (h *payrollHandlerImpl) runStage(w http.ResponseWriter, r *http.Request, stage func(ctx context.Context, payrollID string) (payroll.Payroll, error)) {
	p, err := h.ownedPayroll(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := stage(r.Context(), p.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ownedPayroll loads the payroll from the URL and checks it belongs to the
// caller's company. A foreign payroll reads as not found so ids never leak
// across companies.
func (h *payrollHandlerImpl) ownedPayroll(r *http.Request) (payroll.Payroll, error) {
	companyCode, err := middleware.CompanyCode(r)
	if err != nil {
		return payroll.Payroll{}, err
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}

	p, err := h.payrollService.GetByID(r.Context(), id)
	if err != nil {
		return payroll.Payroll{}, err
	}
	if p.CompanyCode != companyCode {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}

	return p, nil
}
