package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/application"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/policy"
)

var (
	errBadRequestBody    = errors.New("Неверный формат запроса.")
	errInvalidRouteID    = errors.New("Неверный идентификатор маршрута.")
	errInvalidFavoriteID = errors.New("Неверный идентификатор избранного рейса.")
	errMissingAdminToken = errors.New("Укажите токен администратора.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrUnknownRoute):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{
			ErrorCode: "ROUTE_NOT_FOUND",
			Message:   "Маршрут не найден.",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "Запрошенный ресурс не найден."})
	case errors.Is(err, policy.ErrUnknownMode):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			ErrorCode: "UNKNOWN_MODE",
			Message:   "Неизвестный режим уведомлений.",
		})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "Проверьте правильность заполнения полей.",
				Errors:  vErr.FieldErrors,
			})
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error",
			"error", err, "error_kind", application.ErrorKind(err))
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "Внутренняя ошибка сервера."})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Неверный запрос."
	case http.StatusUnauthorized:
		return "Требуется авторизация."
	case http.StatusForbidden:
		return "Недостаточно прав для выполнения операции."
	case http.StatusNotFound:
		return "Запрошенный ресурс не найден."
	case http.StatusUnprocessableEntity:
		return "Проверьте правильность заполнения полей."
	default:
		return "Внутренняя ошибка сервера."
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
