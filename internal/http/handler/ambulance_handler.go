package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carefleet/carefleet-backend/internal/http/response"
	"github.com/carefleet/carefleet-backend/internal/observability"
	"github.com/carefleet/carefleet-backend/internal/service"
)

type AmbulanceHandler struct {
	svc *service.AmbulanceService
}

func NewAmbulanceHandler(svc *service.AmbulanceService) *AmbulanceHandler {
	return &AmbulanceHandler{svc: svc}
}

func (h *AmbulanceHandler) List(w http.ResponseWriter, r *http.Request) {
	ambulances, err := h.svc.List()
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list ambulances", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, ambulances)
}

func (h *AmbulanceHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "ambulanceId"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid ambulance id", nil)
		return
	}

	var body struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	err = h.svc.UpdateLocation(id, service.LocationUpdate{Latitude: body.Latitude, Longitude: body.Longitude})
	if err != nil {
		if errors.Is(err, service.ErrAmbulanceNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "ambulance not found", nil)
			return
		}
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	observability.Audit(r, "ambulance.location.updated", "ambulance_id", id)
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func parsePathID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
