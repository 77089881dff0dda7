package handler

import (
	"net/http"
	"strconv"

	"geochat/internal/entity"
	"geochat/internal/service"

	"go.uber.org/zap"
)

type LocationHandler struct {
	presenceService service.PresenceService
	logger          *zap.SugaredLogger
}

func NewLocationHandler(presenceService service.PresenceService, logger *zap.SugaredLogger) *LocationHandler {
	return &LocationHandler{presenceService: presenceService, logger: logger}
}

func (h *LocationHandler) Report(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string   `json:"username"`
		Avatar   string   `json:"avatar"`
		Lng      *float64 `json:"lng"`
		Lat      *float64 `json:"lat"`
	}
	if err := decodeJSON(r, &request); err != nil ||
		request.Username == "" || request.Lng == nil || request.Lat == nil {
		writeFail(w, "参数缺失")
		return
	}
	if err := h.presenceService.Report(request.Username, *request.Lng, *request.Lat, request.Avatar); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

func (h *LocationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	locations, err := h.presenceService.ListAll()
	if err != nil {
		h.logger.Errorw("location listing failed", "error", err)
		writeJSON(w, []*entity.Location{})
		return
	}
	writeJSON(w, locations)
}

func (h *LocationHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lngStr, latStr := query.Get("lng"), query.Get("lat")
	if lngStr == "" || latStr == "" {
		writeJSON(w, []service.NearbyUser{})
		return
	}
	lng, err1 := strconv.ParseFloat(lngStr, 64)
	lat, err2 := strconv.ParseFloat(latStr, 64)
	if err1 != nil || err2 != nil {
		writeJSON(w, []service.NearbyUser{})
		return
	}
	radius, _ := strconv.ParseFloat(query.Get("radius"), 64)

	users, err := h.presenceService.Nearby(lng, lat, radius, 0)
	if err != nil {
		h.logger.Errorw("nearby search failed", "error", err)
		writeJSON(w, []service.NearbyUser{})
		return
	}
	writeJSON(w, users)
}
