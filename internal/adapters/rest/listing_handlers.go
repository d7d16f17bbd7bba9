package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"

	"github.com/Edmond40/afari-real-estate-sub000/internal/contextkeys"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/domain"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/engine"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port"
	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port/usecases_port"
)

const (
	clientIDHeader   = "X-Client-ID"
	maxInlineBodyLen = 8 << 20
)

type ListingHandler struct {
	browseUC       usecases_port.BrowseListingsUseCase
	getListingUC   usecases_port.GetListingUseCase
	maxInlineItems int
}

func NewListingHandler(browseUC usecases_port.BrowseListingsUseCase,
	getListingUC usecases_port.GetListingUseCase,
	maxInlineItems int) *ListingHandler {
	return &ListingHandler{
		browseUC:       browseUC,
		getListingUC:   getListingUC,
		maxInlineItems: maxInlineItems,
	}
}

// BrowseListings обрабатывает GET /api/v1/listings (серверный режим)
func (h *ListingHandler) BrowseListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	q, err := parseBrowseQuery(r.URL.Query())
	if err != nil {
		logger.Warn("Invalid browse query", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	req := q.toRequest()
	req.ClientKey = r.Header.Get(clientIDHeader)

	respondBrowse(w, h.browseUC.Execute(r.Context(), req))
}

// BrowseInline обрабатывает POST /api/v1/listings/browse.
// Клиент присылает весь набор, сервер только фильтрует, сортирует и режет.
func (h *ListingHandler) BrowseInline(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	var body InlineBrowseRequest
	if err := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxInlineBodyLen)).Decode(&body); err != nil {
		logger.Warn("Invalid inline browse body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if h.maxInlineItems > 0 && len(body.Items) > h.maxInlineItems {
		WriteJSONError(w, http.StatusRequestEntityTooLarge, "too many items")
		return
	}

	snapshot := make([]domain.Listing, 0, len(body.Items))
	for _, raw := range body.Items {
		snapshot = append(snapshot, engine.NormalizeRaw(raw))
	}

	req := domain.BrowseRequest{
		Filters:          body.Filters,
		Sort:             domain.SortKey(body.Sort),
		Page:             body.Page,
		PageSize:         body.PageSize,
		PreviousPageSize: body.PreviousPageSize,
		Snapshot:         snapshot,
		ClientKey:        r.Header.Get(clientIDHeader),
	}

	respondBrowse(w, h.browseUC.Execute(r.Context(), req))
}

// GetListing обрабатывает GET /api/v1/listings/{listingID}
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	id := strings.TrimSpace(chi.URLParam(r, "listingID"))
	listing, err := h.getListingUC.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			WriteJSONError(w, http.StatusNotFound, "listing not found")
			return
		}
		logger.Error("Failed to get listing", err, port.Fields{"listing_id": id})
		WriteJSONError(w, http.StatusBadGateway, "listing source unavailable")
		return
	}

	RespondWithJSON(w, http.StatusOK, toListingDTO(*listing))
}

// respondBrowse переводит результат координатора в HTTP-ответ.
// Даже при ошибке тело содержит валидную пустую страницу.
func respondBrowse(w http.ResponseWriter, res domain.BrowseResult) {
	switch {
	case res.Stale:
		WriteJSONError(w, http.StatusConflict, "request superseded by a newer one")
	case res.Failed && errors.Is(res.Err, domain.ErrSnapshotNotFound):
		RespondWithJSON(w, http.StatusNotFound, toPageDTO(res))
	case res.Failed:
		RespondWithJSON(w, http.StatusBadGateway, toPageDTO(res))
	default:
		RespondWithJSON(w, http.StatusOK, toPageDTO(res))
	}
}
