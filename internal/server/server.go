// Package server exposes the recommendation strategies over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/loan-match/internal/cache"
	"github.com/iwvelando/loan-match/internal/profile"
	"github.com/iwvelando/loan-match/internal/recommend"
	"github.com/iwvelando/loan-match/internal/store"
	"github.com/iwvelando/loan-match/pkg/constants"
	"github.com/iwvelando/loan-match/pkg/datetime"
	"github.com/iwvelando/loan-match/pkg/events"
	"github.com/iwvelando/loan-match/pkg/loans"
	"go.uber.org/zap"
)

// Dependencies are the services the handler serves requests from. Cache and
// Bus may be nil.
type Dependencies struct {
	Offers   store.Repository[recommend.LoanOffer]
	Profiles *profile.Service
	Cache    cache.Cache
	Bus      *events.Bus
}

type handler struct {
	logger      *zap.Logger
	deps        Dependencies
	weighted    *recommend.WeightedRecommender
	schedules   *loans.ScheduleGenerator
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the recommendation API.
func NewHandler(logger *zap.Logger, deps Dependencies, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		deps:        deps,
		schedules:   loans.NewScheduleGenerator(logger),
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}
	if deps.Profiles != nil {
		h.weighted = recommend.NewWeightedRecommender(deps.Profiles)
	}

	mux := http.NewServeMux()

	// Standard strategy scoring
	mux.HandleFunc("/api/recommendations", h.handleRecommendations)

	// Weighted strategy scoring for a stored user
	mux.HandleFunc("/api/recommendations/ai", h.handleAIRecommendations)

	// Criteria extraction from a stored profile
	mux.HandleFunc("/api/criteria", h.handleCriteria)

	mux.HandleFunc("/api/applications", h.handleApplications)
	mux.HandleFunc("/api/schedule", h.handleSchedule)
	mux.HandleFunc("/api/offers", h.handleOffers)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type recommendationsRequest struct {
	Criteria recommend.BorrowerCriteria `json:"criteria"`
	Offers   []recommend.LoanOffer      `json:"offers,omitempty"`
}

type recommendationsResponse struct {
	Strategy        recommend.Strategy      `json:"strategy"`
	Recommendations []recommend.ScoredOffer `json:"recommendations"`
	Duration        string                  `json:"duration"`
}

type aiRecommendationsRequest struct {
	UserID string                `json:"userId"`
	Offers []recommend.LoanOffer `json:"offers,omitempty"`
}

type aiRecommendationsResponse struct {
	Strategy recommend.Strategy `json:"strategy"`
	recommend.AIRecommendations
	Duration string `json:"duration"`
}

type criteriaRequest struct {
	UserID      string                     `json:"userId"`
	LoanAmount  float64                    `json:"loanAmount"`
	LoanPurpose string                     `json:"loanPurpose"`
	Preferences *recommend.UserPreferences `json:"preferences,omitempty"`
}

type scheduleRequest struct {
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"interestRate"`
	TermMonths   int     `json:"termMonths"`
	StartDate    string  `json:"startDate,omitempty"`
}

type scheduleResponse struct {
	MonthlyPayment string          `json:"monthlyPayment"`
	TotalPaid      string          `json:"totalPaid"`
	TotalInterest  string          `json:"totalInterest"`
	Payments       []loans.Payment `json:"payments"`
}

func (h *handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRecommendations"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	body, ok := h.readBody(w, r, op)
	if !ok {
		return
	}

	key := cache.Key("recommendations", body)
	if cached, ok := h.serveCached(r.Context(), w, key, op); ok {
		h.publishCachedGenerated(recommend.StrategyStandard, "", cached)
		return
	}

	var req recommendationsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	offers, err := h.resolveOffers(r.Context(), req.Offers)
	if err != nil {
		h.respondFromError(w, err, op)
		return
	}

	results, err := recommend.GetRecommendations(req.Criteria, offers)
	if err != nil {
		h.respondFromError(w, err, op)
		return
	}

	elapsed := time.Since(start)
	response := recommendationsResponse{
		Strategy:        recommend.StrategyStandard,
		Recommendations: results,
		Duration:        elapsed.String(),
	}

	topOffer := ""
	if len(results) > 0 {
		topOffer = results[0].OfferID
	}
	h.logger.Info("recommendations computed",
		zap.String("op", op),
		zap.String("strategy", string(recommend.StrategyStandard)),
		zap.Int("offers", len(offers)),
		zap.Duration("duration", elapsed),
	)
	h.publishGenerated(recommend.StrategyStandard, "", len(results), topOffer, false)
	h.writeCachedJSON(r.Context(), w, key, response, op)
}

func (h *handler) handleAIRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAIRecommendations"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if h.weighted == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "no profile service configured", op)
		return
	}

	start := time.Now()
	body, ok := h.readBody(w, r, op)
	if !ok {
		return
	}

	var req aiRecommendationsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	// The loan purpose comes from the latest application, so it is part of the key.
	namespace := "ai"
	if latest, found, err := h.deps.Profiles.LatestApplication(r.Context(), req.UserID); err == nil && found {
		namespace = "ai:" + latest.ID
	}
	key := cache.Key(namespace, body)
	if cached, ok := h.serveCached(r.Context(), w, key, op); ok {
		h.publishCachedGenerated(recommend.StrategyWeighted, req.UserID, cached)
		return
	}

	offers, err := h.resolveOffers(r.Context(), req.Offers)
	if err != nil {
		h.respondFromError(w, err, op)
		return
	}

	result, err := h.weighted.GetAIRecommendations(r.Context(), req.UserID, offers)
	if err != nil {
		h.respondFromError(w, err, op)
		return
	}

	elapsed := time.Since(start)
	topOffer := ""
	if result.TopPick != nil {
		topOffer = result.TopPick.ID
	}
	h.logger.Info("recommendations computed",
		zap.String("op", op),
		zap.String("strategy", string(recommend.StrategyWeighted)),
		zap.String("userID", req.UserID),
		zap.Int("offers", len(offers)),
		zap.Duration("duration", elapsed),
	)
	h.publishGenerated(recommend.StrategyWeighted, req.UserID, len(result.Recommendations), topOffer, false)
	h.writeCachedJSON(r.Context(), w, key, aiRecommendationsResponse{
		Strategy:          recommend.StrategyWeighted,
		AIRecommendations: result,
		Duration:          elapsed.String(),
	}, op)
}

func (h *handler) handleCriteria(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCriteria"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if h.deps.Profiles == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "no profile service configured", op)
		return
	}

	var req criteriaRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		h.respondErrorWithOp(w, http.StatusBadRequest, "userId is required", op)
		return
	}

	criteria, err := h.deps.Profiles.CriteriaForUser(r.Context(), req.UserID, req.LoanAmount, req.LoanPurpose, req.Preferences)
	if err != nil {
		h.respondFromError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, criteria)
}

func (h *handler) handleApplications(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleApplications"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if h.deps.Profiles == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "no profile service configured", op)
		return
	}

	var app profile.Application
	if !h.decodeBody(w, r, &app, op) {
		return
	}

	stored, err := h.deps.Profiles.SubmitApplication(r.Context(), app)
	if err != nil {
		h.respondFromError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, stored)
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req scheduleRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}

	start := time.Now().UTC()
	if req.StartDate != "" {
		parsed, err := datetime.ParseDate(req.StartDate)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid startDate: %v", err), op)
			return
		}
		start = parsed
	}

	payments, err := h.schedules.Generate(req.Amount, req.InterestRate, req.TermMonths, start)
	if err != nil {
		h.respondFromError(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, scheduleResponse{
		MonthlyPayment: payments[0].Payment.StringFixed(2),
		TotalPaid:      loans.TotalPaid(payments).StringFixed(2),
		TotalInterest:  loans.InterestPaid(payments).StringFixed(2),
		Payments:       payments,
	})
}

func (h *handler) handleOffers(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOffers"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	offers, err := h.resolveOffers(r.Context(), nil)
	if err != nil {
		h.respondFromError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"offers": offers,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// resolveOffers returns the request's offers, or the stored offers when the
// request carries none.
func (h *handler) resolveOffers(ctx context.Context, requested []recommend.LoanOffer) ([]recommend.LoanOffer, error) {
	if requested != nil {
		return requested, nil
	}
	if h.deps.Offers == nil {
		return []recommend.LoanOffer{}, nil
	}
	offers, err := h.deps.Offers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, nil
}

func (h *handler) readBody(w http.ResponseWriter, r *http.Request, op string) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return nil, false
	}
	return body, true
}

func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	body, ok := h.readBody(w, r, op)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) serveCached(ctx context.Context, w http.ResponseWriter, key, op string) (string, bool) {
	if h.deps.Cache == nil {
		return "", false
	}
	cached, ok := h.deps.Cache.Get(ctx, key)
	if !ok {
		return "", false
	}

	h.logger.Debug("serving cached response",
		zap.String("op", op),
		zap.String("key", key),
	)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "HIT")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, cached); err != nil {
		h.logger.Error("failed to write cached response", zap.String("op", op), zap.Error(err))
	}
	return cached, true
}

func (h *handler) writeCachedJSON(ctx context.Context, w http.ResponseWriter, key string, payload interface{}, op string) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode response: %v", err), op)
		return
	}
	data = append(data, '\n')

	if h.deps.Cache != nil {
		if err := h.deps.Cache.Set(ctx, key, string(data)); err != nil {
			h.logger.Warn("failed to cache response",
				zap.String("op", op),
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) publishGenerated(strategy recommend.Strategy, userID string, count int, topOffer string, cached bool) {
	if h.deps.Bus == nil {
		return
	}
	h.deps.Bus.Publish(events.TopicRecommendationsGenerated, map[string]interface{}{
		"strategy":   string(strategy),
		"userId":     userID,
		"count":      count,
		"topOfferId": topOffer,
		"cached":     cached,
	})
}

// cachedSummary reads back what publishGenerated needs from either
// recommendation response shape.
type cachedSummary struct {
	Recommendations []struct {
		OfferID string `json:"offerId"`
	} `json:"recommendations"`
	TopPick *struct {
		ID string `json:"id"`
	} `json:"topPick"`
}

func (h *handler) publishCachedGenerated(strategy recommend.Strategy, userID, cached string) {
	var summary cachedSummary
	if err := json.Unmarshal([]byte(cached), &summary); err != nil {
		h.logger.Warn("failed to summarize cached response",
			zap.String("op", "server.publishCachedGenerated"),
			zap.Error(err),
		)
	}

	topOffer := ""
	switch {
	case summary.TopPick != nil:
		topOffer = summary.TopPick.ID
	case strategy == recommend.StrategyStandard && len(summary.Recommendations) > 0:
		topOffer = summary.Recommendations[0].OfferID
	}
	h.publishGenerated(strategy, userID, len(summary.Recommendations), topOffer, true)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, recommend.ErrInvalidInput), errors.Is(err, loans.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) respondFromError(w http.ResponseWriter, err error, op string) {
	h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
