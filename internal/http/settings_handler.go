package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/application"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/policy"
)

type settingsService interface {
	GetSettings(ctx context.Context) (application.SettingsView, error)
	SetGlobalMode(ctx context.Context, mode string, days []int) error
	SetRouteMode(ctx context.Context, routeID, mode string, days []int) error
	ClearRouteMode(ctx context.Context, routeID string) error
	SetQuietOff(ctx context.Context) error
	SetQuietOn(ctx context.Context) error
	SetQuietForDays(ctx context.Context, days int) error
}

type SettingsHandler struct {
	service   settingsService
	responder responder
	logger    *slog.Logger
}

func NewSettingsHandler(service settingsService, logger *slog.Logger) *SettingsHandler {
	base := defaultLogger(logger)
	return &SettingsHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SettingsHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SettingsHandler", operation, attrs...)
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "Get")

	view, err := h.service.GetSettings(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "settings lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSettingsDTO(view))
}

func (h *SettingsHandler) UpdateGlobalMode(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateGlobalMode", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode mode request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpdateGlobalMode", "mode", req.Mode)

	if err := h.service.SetGlobalMode(r.Context(), req.Mode, req.Days); err != nil {
		logger.ErrorContext(r.Context(), "global mode update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "global mode updated")
	h.respondWithSettings(w, r)
}

func (h *SettingsHandler) UpdateRouteMode(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	routeID, ok := RouteIDFromContext(r.Context())
	if !ok || strings.TrimSpace(routeID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRouteID)
		return
	}

	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateRouteMode", "route_id", routeID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode mode request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpdateRouteMode", "route_id", routeID, "mode", req.Mode)

	if err := h.service.SetRouteMode(r.Context(), routeID, req.Mode, req.Days); err != nil {
		logger.ErrorContext(r.Context(), "route mode update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "route mode updated")
	h.respondWithSettings(w, r)
}

func (h *SettingsHandler) ClearRouteMode(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	routeID, ok := RouteIDFromContext(r.Context())
	if !ok || strings.TrimSpace(routeID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRouteID)
		return
	}

	logger := h.log(r.Context(), "ClearRouteMode", "route_id", routeID)

	if err := h.service.ClearRouteMode(r.Context(), routeID); err != nil {
		logger.ErrorContext(r.Context(), "route mode clear failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "route mode cleared")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *SettingsHandler) UpdateQuiet(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req quietRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateQuiet", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode quiet request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpdateQuiet", "kind", req.Kind)

	var err error
	switch policy.QuietKind(req.Kind) {
	case policy.QuietOff:
		err = h.service.SetQuietOff(r.Context())
	case policy.QuietOn:
		err = h.service.SetQuietOn(r.Context())
	case policy.QuietUntil:
		err = h.service.SetQuietForDays(r.Context(), req.Days)
	default:
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			ErrorCode: "UNKNOWN_QUIET_KIND",
			Message:   "Неизвестный режим тишины.",
		})
		return
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "quiet mode update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "quiet mode updated")
	h.respondWithSettings(w, r)
}

func (h *SettingsHandler) respondWithSettings(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetSettings(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSettingsDTO(view))
}

type modeRequest struct {
	Mode string `json:"mode"`
	Days []int  `json:"days,omitempty"`
}

type quietRequest struct {
	Kind string `json:"kind"`
	Days int    `json:"days,omitempty"`
}

type routeModeDTO struct {
	RouteID string `json:"route_id"`
	Mode    string `json:"mode"`
	Days    []int  `json:"days,omitempty"`
}

type quietDTO struct {
	Kind  string `json:"kind"`
	Until string `json:"until,omitempty"`
}

type settingsResponse struct {
	GlobalMode string         `json:"global_mode"`
	GlobalDays []int          `json:"global_days,omitempty"`
	Routes     []routeModeDTO `json:"routes,omitempty"`
	Quiet      quietDTO       `json:"quiet"`
}

func toSettingsDTO(view application.SettingsView) settingsResponse {
	response := settingsResponse{
		GlobalMode: view.GlobalMode,
		GlobalDays: view.GlobalDays,
		Quiet:      quietDTO{Kind: view.Quiet.Kind},
	}
	if !view.Quiet.Until.IsZero() {
		response.Quiet.Until = view.Quiet.Until.Format(time.RFC3339)
	}
	for _, route := range view.Routes {
		response.Routes = append(response.Routes, routeModeDTO{
			RouteID: route.RouteID,
			Mode:    route.Mode,
			Days:    route.Days,
		})
	}
	return response
}
