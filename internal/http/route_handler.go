package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/application"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/timetable"
)

type departureService interface {
	ListRoutes(ctx context.Context) []timetable.Route
	RouteBoard(ctx context.Context, routeID string) (application.RouteBoard, error)
	NextDeparture(ctx context.Context, routeID, pointKey string) (application.DepartureView, bool, error)
}

type RouteHandler struct {
	service   departureService
	responder responder
	logger    *slog.Logger
}

func NewRouteHandler(service departureService, logger *slog.Logger) *RouteHandler {
	base := defaultLogger(logger)
	return &RouteHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RouteHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RouteHandler", operation, attrs...)
}

func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	routes := h.service.ListRoutes(r.Context())
	dtos := make([]routeDTO, 0, len(routes))
	for _, route := range routes {
		dtos = append(dtos, routeDTO{ID: route.ID, Number: route.Number, Name: route.Name})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, routesResponse{Routes: dtos})
}

func (h *RouteHandler) Departures(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	routeID, ok := RouteIDFromContext(r.Context())
	if !ok || strings.TrimSpace(routeID) == "" {
		h.log(r.Context(), "Departures", "error_kind", "bad_request").ErrorContext(r.Context(), "missing route id for board")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRouteID)
		return
	}

	logger := h.log(r.Context(), "Departures", "route_id", routeID)

	board, err := h.service.RouteBoard(r.Context(), routeID)
	if err != nil {
		logger.ErrorContext(r.Context(), "board assembly failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBoardDTO(board))
}

func (h *RouteHandler) NextDeparture(w http.ResponseWriter, r *http.Request, pointKey string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	routeID, ok := RouteIDFromContext(r.Context())
	if !ok || strings.TrimSpace(routeID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRouteID)
		return
	}

	logger := h.log(r.Context(), "NextDeparture", "route_id", routeID, "point", pointKey)

	view, found, err := h.service.NextDeparture(r.Context(), routeID, pointKey)
	if err != nil {
		logger.ErrorContext(r.Context(), "next departure lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if !found {
		h.responder.writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Message: "Ближайший рейс не найден."})
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, nextDepartureResponse{Departure: toDepartureDTO(view)})
}

type routeDTO struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Name   string `json:"name"`
}

type routesResponse struct {
	Routes []routeDTO `json:"routes"`
}

type departureDTO struct {
	ID             string `json:"id"`
	RouteID        string `json:"route_id"`
	DeparturePoint string `json:"departure_point"`
	StopName       string `json:"stop_name"`
	TimeOfDay      string `json:"time_of_day"`
	Notes          string `json:"notes,omitempty"`
	DepartsAt      string `json:"departs_at,omitempty"`
	MinutesUntil   int    `json:"minutes_until"`
	SecondsUntil   int    `json:"seconds_until"`
	IsNext         bool   `json:"is_next"`
	IsFavorite     bool   `json:"is_favorite"`
}

type pointBoardDTO struct {
	Key        string         `json:"key"`
	Label      string         `json:"label"`
	Departures []departureDTO `json:"departures"`
}

type boardResponse struct {
	Route       routeDTO        `json:"route"`
	GeneratedAt string          `json:"generated_at"`
	Points      []pointBoardDTO `json:"points"`
}

type nextDepartureResponse struct {
	Departure departureDTO `json:"departure"`
}

func toDepartureDTO(view application.DepartureView) departureDTO {
	dto := departureDTO{
		ID:             view.ID,
		RouteID:        view.RouteID,
		DeparturePoint: view.DeparturePoint,
		StopName:       view.StopName,
		TimeOfDay:      view.TimeOfDay,
		Notes:          view.Notes,
		MinutesUntil:   view.MinutesUntil,
		SecondsUntil:   view.SecondsUntil,
		IsNext:         view.IsNext,
		IsFavorite:     view.IsFavorite,
	}
	if !view.DepartsAt.IsZero() {
		dto.DepartsAt = view.DepartsAt.Format(time.RFC3339)
	}
	return dto
}

func toBoardDTO(board application.RouteBoard) boardResponse {
	response := boardResponse{
		Route:       routeDTO{ID: board.Route.ID, Number: board.Route.Number, Name: board.Route.Name},
		GeneratedAt: board.GeneratedAt.Format(time.RFC3339),
	}
	for _, point := range board.Points {
		dto := pointBoardDTO{Key: point.Key, Label: point.Label}
		for _, departure := range point.Departures {
			dto.Departures = append(dto.Departures, toDepartureDTO(departure))
		}
		response.Points = append(response.Points, dto)
	}
	return response
}
