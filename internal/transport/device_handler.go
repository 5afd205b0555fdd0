package transport

import (
	"errors"
	"net/http"
	"strconv"

	"amber-storefront/internal/messaging"
	"amber-storefront/internal/middleware"
	"amber-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DeviceHandler serves the map selector and the social profile links
type DeviceHandler struct {
	location service.LocationService
	logger   *zap.Logger
}

// NewDeviceHandler creates a new DeviceHandler
func NewDeviceHandler(location service.LocationService, logger *zap.Logger) *DeviceHandler {
	return &DeviceHandler{
		location: location,
		logger:   logger,
	}
}

// RegisterRoutes registers the location and social routes
func (h *DeviceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/location/reverse", h.ReverseGeocode)
	r.Get("/api/social/{platform}", h.Social)
}

// ReverseGeocode turns ?lat=&lng= into a delivery address.
func (h *DeviceHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		middleware.RespondWithError(w, http.StatusBadRequest, "Coordenadas inválidas")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, h.location.ReverseGeocode(r.Context(), lat, lng))
}

// Social resolves the profile URL for a platform. ?app_installed=true
// prefers the app scheme.
func (h *DeviceHandler) Social(w http.ResponseWriter, r *http.Request) {
	launcher := messaging.NewHandoffLauncher(queryBool(r, "app_installed"))

	delivery, err := messaging.OpenSocial(r.Context(), launcher, chi.URLParam(r, "platform"))
	if err != nil {
		if errors.Is(err, messaging.ErrUnknownPlatform) {
			middleware.RespondWithError(w, http.StatusNotFound, "Red social no disponible")
			return
		}
		h.logger.Warn("Failed to open social profile", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "No se pudo abrir el enlace")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, delivery)
}
