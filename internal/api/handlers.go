package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/talentdesk/ctc-calculator/internal/calculation"
	"github.com/talentdesk/ctc-calculator/internal/domain"
	"github.com/talentdesk/ctc-calculator/internal/output"
	"github.com/talentdesk/ctc-calculator/internal/store"
	"github.com/talentdesk/ctc-calculator/pkg/dateutil"
)

// maxBodyBytes bounds request bodies; an offer is a few hundred bytes.
const maxBodyBytes = 1 << 20

// heartbeatInterval keeps idle event streams open through proxies
var heartbeatInterval = 30 * time.Second

// Handler serves the compensation and offer endpoints.
type Handler struct {
	engine  *calculation.CompensationEngine
	store   store.Store
	metrics *Metrics
	logger  *slog.Logger
	now     func() time.Time

	closeOnce sync.Once
	closing   chan struct{}
}

// NewHandler creates a handler. A nil logger falls back to slog.Default and nil
// metrics to a private registry.
func NewHandler(engine *calculation.CompensationEngine, st store.Store, metrics *Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Handler{
		engine:  engine,
		store:   st,
		metrics: metrics,
		logger:  logger.With("component", "api"),
		now:     time.Now,
		closing: make(chan struct{}),
	}
}

// CloseStreams ends every open event stream. http.Server.Shutdown does not
// cancel request contexts, so register this with RegisterOnShutdown.
func (h *Handler) CloseStreams() {
	h.closeOnce.Do(func() { close(h.closing) })
}

// =============================================================================
// COMPENSATION
// =============================================================================

// Calculate handles POST /api/compensation/calculate.
// Query parameters:
//   - breakdown: "true" to include slab detail
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CompensationRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req == nil {
		err := calculation.NewInputError("", "request body must be a JSON object")
		h.metrics.observeCalculation(err)
		writeInputError(w, err)
		return
	}
	in, err := req.Input()
	if err != nil {
		h.metrics.observeCalculation(err)
		writeInputError(w, err)
		return
	}

	res, breakdown, err := h.engine.CalculateWithBreakdown(in)
	h.metrics.observeCalculation(err)
	if err != nil {
		writeInputError(w, err)
		return
	}

	resp := CalculationResponse{Input: in, Result: res}
	if withBreakdown, _ := strconv.ParseBool(r.URL.Query().Get("breakdown")); withBreakdown {
		resp.Breakdown = &breakdown
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRegime handles GET /api/compensation/regime
func (h *Handler) GetRegime(w http.ResponseWriter, r *http.Request) {
	regime := h.engine.Regime()
	writeJSON(w, http.StatusOK, RegimeResponse{
		Name:        regime.Name,
		Currency:    calculation.DefaultCurrency,
		FiscalYear:  dateutil.FiscalYearLabel(h.now()),
		Assumptions: output.GenerateAssumptions(regime),
	})
}

// =============================================================================
// OFFERS
// =============================================================================

// ListOffers handles GET /api/offers.
// Query parameters:
//   - status, fiscal_year: exact match
//   - candidate: case-insensitive substring
func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err)
		return
	}
	offers, err := h.store.List(r.Context(), filter)
	if err != nil {
		h.storeError(w, r, "list offers", err)
		return
	}

	resp := make([]OfferResponse, 0, len(offers))
	for _, o := range offers {
		res, err := h.engine.Calculate(o.Compensation)
		if err != nil {
			h.storeError(w, r, "calculate offer "+o.ID, err)
			return
		}
		resp = append(resp, toOfferResponse(o, res))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateOffer handles POST /api/offers
func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var req OfferRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	offer, err := req.Offer()
	if err != nil {
		h.metrics.observeWrite("create", err)
		writeInputError(w, err)
		return
	}

	created, err := h.store.Create(r.Context(), offer)
	h.metrics.observeWrite("create", err)
	if err != nil {
		h.storeError(w, r, "create offer", err)
		return
	}
	h.logger.Info("offer created", "id", created.ID, "status", created.Status, "request_id", middleware.GetReqID(r.Context()))
	h.writeOffer(w, r, http.StatusCreated, created)
}

// GetOffer handles GET /api/offers/{id}
func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	offer, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, r, "get offer", err)
		return
	}
	h.writeOffer(w, r, http.StatusOK, offer)
}

// UpdateOffer handles PUT /api/offers/{id}
func (h *Handler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	var req OfferRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	offer, err := req.Offer()
	if err != nil {
		h.metrics.observeWrite("update", err)
		writeInputError(w, err)
		return
	}
	offer.ID = chi.URLParam(r, "id")

	updated, err := h.store.Update(r.Context(), offer)
	h.metrics.observeWrite("update", err)
	if err != nil {
		h.storeError(w, r, "update offer", err)
		return
	}
	h.writeOffer(w, r, http.StatusOK, updated)
}

// DeleteOffer handles DELETE /api/offers/{id}
func (h *Handler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	err := h.store.Delete(r.Context(), chi.URLParam(r, "id"))
	h.metrics.observeWrite("delete", err)
	if err != nil {
		h.storeError(w, r, "delete offer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportOffersCSV handles GET /api/offers/export.csv with the same filters as ListOffers
func (h *Handler) ExportOffersCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err)
		return
	}
	offers, err := h.store.List(r.Context(), filter)
	if err != nil {
		h.storeError(w, r, "list offers", err)
		return
	}

	rows := make([]output.OfferRow, 0, len(offers))
	for _, o := range offers {
		res, err := h.engine.Calculate(o.Compensation)
		if err != nil {
			h.storeError(w, r, "calculate offer "+o.ID, err)
			return
		}
		rows = append(rows, output.OfferRow{Offer: o, Result: res})
	}

	var buf bytes.Buffer
	if err := output.WriteOffersCSV(&buf, rows); err != nil {
		writeError(w, http.StatusInternalServerError, "export failed", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="offers.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// OfferLetter handles GET /api/offers/{id}/letter.pdf
func (h *Handler) OfferLetter(w http.ResponseWriter, r *http.Request) {
	offer, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, r, "get offer", err)
		return
	}
	res, breakdown, err := h.engine.CalculateWithBreakdown(offer.Compensation)
	if err != nil {
		h.storeError(w, r, "calculate offer", err)
		return
	}

	pdf, err := output.RenderOfferLetters(output.LetterDetails{
		Candidate:  offer.Candidate,
		Role:       offer.Role,
		Department: offer.Department,
		FiscalYear: offer.FiscalYear,
		Currency:   calculation.DefaultCurrency,
		IssuedAt:   h.now(),
		Input:      offer.Compensation,
		Result:     res,
		Breakdown:  breakdown,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "letter rendering failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="offer-%s.pdf"`, offer.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// OfferEvents handles GET /api/offers/events as a server-sent event stream.
// Each store change is sent as an event named after its type with the offer
// and its recomputed result as data.
func (h *Handler) OfferEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported", nil)
		return
	}
	// the server's write timeout would otherwise cut the stream
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	events := h.store.Subscribe(ctx)
	if _, err := fmt.Fprint(w, ": subscribed\n\n"); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-h.closing:
			return

		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case e, ok := <-events:
			if !ok {
				return
			}
			res, err := h.engine.Calculate(e.Offer.Compensation)
			if err != nil {
				h.logger.Warn("skipping event for uncomputable offer", "id", e.Offer.ID, "error", err)
				continue
			}
			data, err := json.Marshal(OfferEvent{Type: string(e.Type), Offer: toOfferResponse(e.Offer, res)})
			if err != nil {
				h.logger.Warn("failed to marshal event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data); err != nil {
				h.logger.Debug("client disconnected", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) writeOffer(w http.ResponseWriter, r *http.Request, status int, o domain.Offer) {
	res, err := h.engine.Calculate(o.Compensation)
	if err != nil {
		h.storeError(w, r, "calculate offer", err)
		return
	}
	writeJSON(w, status, toOfferResponse(o, res))
}

// storeError maps store and engine errors to HTTP statuses
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, action string, err error) {
	switch {
	case errors.Is(err, store.ErrOfferNotFound):
		writeError(w, http.StatusNotFound, "offer not found", nil)
	case errors.Is(err, calculation.ErrInvalidInput):
		writeInputError(w, err)
	case errors.Is(err, store.ErrInvalidOffer):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_offer"})
	default:
		h.logger.Error(action+" failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeError(w, http.StatusInternalServerError, action+" failed", nil)
	}
}

func parseFilter(r *http.Request) (store.Filter, error) {
	q := r.URL.Query()
	f := store.Filter{
		Status:     domain.OfferStatus(q.Get("status")),
		FiscalYear: q.Get("fiscal_year"),
		Candidate:  q.Get("candidate"),
	}
	if f.Status != "" && !f.Status.Valid() {
		return store.Filter{}, fmt.Errorf("unknown status %q", f.Status)
	}
	if f.FiscalYear != "" {
		if _, err := dateutil.ParseFiscalYearLabel(f.FiscalYear); err != nil {
			return store.Filter{}, err
		}
	}
	return f, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeInputError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error(), Code: "invalid_input"}
	var inputErr *calculation.InputError
	if errors.As(err, &inputErr) {
		resp.Field = inputErr.Field
	}
	writeJSON(w, http.StatusBadRequest, resp)
}
