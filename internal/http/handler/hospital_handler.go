package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carefleet/carefleet-backend/internal/http/middleware"
	"github.com/carefleet/carefleet-backend/internal/http/response"
	"github.com/carefleet/carefleet-backend/internal/service"
)

type HospitalHandler struct {
	svc *service.HospitalService
}

func NewHospitalHandler(svc *service.HospitalService) *HospitalHandler {
	return &HospitalHandler{svc: svc}
}

func (h *HospitalHandler) Beds(w http.ResponseWriter, r *http.Request) {
	hospitalID := chi.URLParam(r, "hospitalId")
	beds, err := h.svc.Beds(hospitalID)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	response.JSON(w, r, http.StatusOK, beds)
}

func (h *HospitalHandler) Staff(w http.ResponseWriter, r *http.Request) {
	hospitalID := chi.URLParam(r, "hospitalId")
	staff, err := h.svc.Staff(hospitalID)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	response.JSON(w, r, http.StatusOK, staff)
}

func (h *HospitalHandler) Assignments(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	assignments, err := h.svc.AssignmentsFor(claims.Role, claims.Email)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list assignments", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, assignments)
}
