package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/application"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/persistence"
)

type favoriteService interface {
	AddFavorite(ctx context.Context, input application.FavoriteInput) (persistence.FavoriteDeparture, error)
	SetActive(ctx context.Context, favoriteID string, active bool) (persistence.FavoriteDeparture, error)
	RemoveFavorite(ctx context.Context, favoriteID string) error
	ListFavorites(ctx context.Context) ([]persistence.FavoriteDeparture, error)
}

type FavoriteHandler struct {
	service   favoriteService
	responder responder
	logger    *slog.Logger
}

func NewFavoriteHandler(service favoriteService, logger *slog.Logger) *FavoriteHandler {
	base := defaultLogger(logger)
	return &FavoriteHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *FavoriteHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "FavoriteHandler", operation, attrs...)
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")

	favorites, err := h.service.ListFavorites(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "favorite listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]favoriteDTO, 0, len(favorites))
	for _, favorite := range favorites {
		dtos = append(dtos, toFavoriteDTO(favorite))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, favoritesResponse{Favorites: dtos})
}

func (h *FavoriteHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode favorite request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "route_id", req.RouteID)

	favorite, err := h.service.AddFavorite(r.Context(), application.FavoriteInput{
		RouteID:        req.RouteID,
		DeparturePoint: req.DeparturePoint,
		DepartureTime:  req.DepartureTime,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "favorite creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("favorite_id", favorite.ID).InfoContext(r.Context(), "favorite created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, favoriteResponse{Favorite: toFavoriteDTO(favorite)})
}

func (h *FavoriteHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	favoriteID, ok := FavoriteIDFromContext(r.Context())
	if !ok || strings.TrimSpace(favoriteID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing favorite id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidFavoriteID)
		return
	}

	var req favoriteUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "favorite_id", favoriteID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode favorite update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "favorite_id", favoriteID)

	favorite, err := h.service.SetActive(r.Context(), favoriteID, req.IsActive)
	if err != nil {
		logger.ErrorContext(r.Context(), "favorite update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "favorite updated", "active", favorite.IsActive)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, favoriteResponse{Favorite: toFavoriteDTO(favorite)})
}

func (h *FavoriteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	favoriteID, ok := FavoriteIDFromContext(r.Context())
	if !ok || strings.TrimSpace(favoriteID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing favorite id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidFavoriteID)
		return
	}

	logger := h.log(r.Context(), "Delete", "favorite_id", favoriteID)

	if err := h.service.RemoveFavorite(r.Context(), favoriteID); err != nil {
		logger.ErrorContext(r.Context(), "favorite deletion failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "favorite deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type favoriteRequest struct {
	RouteID        string `json:"route_id"`
	DeparturePoint string `json:"departure_point"`
	DepartureTime  string `json:"departure_time"`
}

type favoriteUpdateRequest struct {
	IsActive bool `json:"is_active"`
}

type favoriteDTO struct {
	ID             string `json:"id"`
	RouteID        string `json:"route_id"`
	RouteNumber    string `json:"route_number"`
	RouteName      string `json:"route_name"`
	StopName       string `json:"stop_name"`
	DeparturePoint string `json:"departure_point"`
	DepartureTime  string `json:"departure_time"`
	DayOfWeek      int    `json:"day_of_week"`
	AddedAt        string `json:"added_at"`
	IsActive       bool   `json:"is_active"`
}

type favoriteResponse struct {
	Favorite favoriteDTO `json:"favorite"`
}

type favoritesResponse struct {
	Favorites []favoriteDTO `json:"favorites"`
}

func toFavoriteDTO(favorite persistence.FavoriteDeparture) favoriteDTO {
	return favoriteDTO{
		ID:             favorite.ID,
		RouteID:        favorite.RouteID,
		RouteNumber:    favorite.RouteNumber,
		RouteName:      favorite.RouteName,
		StopName:       favorite.StopName,
		DeparturePoint: favorite.DeparturePoint,
		DepartureTime:  favorite.DepartureTime,
		DayOfWeek:      int(favorite.DayOfWeek),
		AddedAt:        favorite.AddedAt.Format(time.RFC3339),
		IsActive:       favorite.IsActive,
	}
}
