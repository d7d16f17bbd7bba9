package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Edmond40/afari-real-estate-sub000/internal/contextkeys"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port/usecases_port"
)

var defaultStatsFields = []domain.GroupField{domain.GroupByStatus, domain.GroupByLocation, domain.GroupByType}

type StatsHandler struct {
	statsUC usecases_port.ListingStatsUseCase
}

func NewStatsHandler(statsUC usecases_port.ListingStatsUseCase) *StatsHandler {
	return &StatsHandler{statsUC: statsUC}
}

// GetListingStats обрабатывает GET /api/v1/stats/listings?groupBy=status&groupBy=location
// Допускается и список через запятую: groupBy=status,location
func (h *StatsHandler) GetListingStats(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	fields := parseGroupFields(r.URL.Query()["groupBy"])
	if len(fields) == 0 {
		fields = defaultStatsFields
	}

	stats, err := h.statsUC.Execute(r.Context(), fields)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownGroupField) {
			WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("Failed to collect listing stats", err, nil)
		WriteJSONError(w, http.StatusBadGateway, "listing source unavailable")
		return
	}

	RespondWithJSON(w, http.StatusOK, toStatsDTO(stats))
}

func parseGroupFields(values []string) []domain.GroupField {
	var fields []domain.GroupField
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				fields = append(fields, domain.GroupField(strings.ToLower(part)))
			}
		}
	}
	return fields
}
