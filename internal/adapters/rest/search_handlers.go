package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"

	"github.com/Edmond40/afari-real-estate-sub000/internal/contextkeys"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port/usecases_port"
)

type SearchHandler struct {
	createSnapshotUC usecases_port.CreateSearchSnapshotUseCase
	browseUC         usecases_port.BrowseListingsUseCase
}

func NewSearchHandler(createSnapshotUC usecases_port.CreateSearchSnapshotUseCase,
	browseUC usecases_port.BrowseListingsUseCase) *SearchHandler {
	return &SearchHandler{
		createSnapshotUC: createSnapshotUC,
		browseUC:         browseUC,
	}
}

// CreateSearch обрабатывает POST /api/v1/searches
func (h *SearchHandler) CreateSearch(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	var body CreateSearchRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot, err := h.createSnapshotUC.Execute(r.Context(), body.Query)
	if err != nil {
		if errors.Is(err, domain.ErrEmptySearchQuery) {
			WriteJSONError(w, http.StatusBadRequest, "query is required")
			return
		}
		logger.Error("Failed to create search snapshot", err, port.Fields{"query": body.Query})
		WriteJSONError(w, http.StatusBadGateway, "listing source unavailable")
		return
	}

	RespondWithJSON(w, http.StatusCreated, CreateSearchResponse{
		ID:    snapshot.ID,
		Query: snapshot.Query,
		Total: len(snapshot.Items),
	})
}

// BrowseSearch обрабатывает GET /api/v1/searches/{searchID}/listings
func (h *SearchHandler) BrowseSearch(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	q, err := parseBrowseQuery(r.URL.Query())
	if err != nil {
		logger.Warn("Invalid browse query", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	req := q.toRequest()
	req.SnapshotID = strings.TrimSpace(chi.URLParam(r, "searchID"))
	req.ClientKey = r.Header.Get(clientIDHeader)

	respondBrowse(w, h.browseUC.Execute(r.Context(), req))
}
