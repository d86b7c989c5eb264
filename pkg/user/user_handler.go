package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nothowstorygoes/carlocalendar/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

type UserDTO struct {
	Uid          string `json:"uid"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoUrl     string `json:"photoUrl,omitempty"`
	Timezone     string `json:"timezone"`
	WeekFirstDay int    `json:"weekFirstDay"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetCurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoUser) {
			rest.WriteError(w, http.StatusUnauthorized, "not signed in", "")
			return
		}
		log.Errorf("failed to get current user: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, userToDTO(u))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var dto UserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid user payload", err.Error())
		return
	}

	updated, err := h.service.UpdateCurrentUser(r.Context(), dtoToUser(dto))
	if err != nil {
		if errors.Is(err, ErrNoUser) {
			rest.WriteError(w, http.StatusUnauthorized, "not signed in", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, userToDTO(updated))
}

func userToDTO(u User) UserDTO {
	return UserDTO{
		Uid:          u.Uid,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PhotoUrl:     u.PhotoUrl,
		Timezone:     u.Settings.Timezone,
		WeekFirstDay: int(u.Settings.WeekFirstDay),
	}
}

func dtoToUser(dto UserDTO) User {
	return User{
		Uid:         dto.Uid,
		Email:       dto.Email,
		DisplayName: dto.DisplayName,
		PhotoUrl:    dto.PhotoUrl,
		Settings: Settings{
			Timezone:     dto.Timezone,
			WeekFirstDay: time.Weekday(dto.WeekFirstDay),
		},
	}
}
