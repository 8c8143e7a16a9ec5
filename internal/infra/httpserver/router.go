package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	apptriage "github.com/bryanwahyu/automaton-triage/internal/application/triage"
	"github.com/bryanwahyu/automaton-triage/internal/config"
	domai "github.com/bryanwahyu/automaton-triage/internal/domain/ai"
	domain "github.com/bryanwahyu/automaton-triage/internal/domain/records"
	"github.com/bryanwahyu/automaton-triage/internal/domain/sentry"
	"github.com/bryanwahyu/automaton-triage/internal/domain/tickets"
	"github.com/bryanwahyu/automaton-triage/internal/middleware"
)

var errBadRequest = errors.New("invalid request")

type Router struct {
	svc *apptriage.Service
	cfg *config.Config
}

func NewRouter(svc *apptriage.Service, cfg *config.Config, db *sql.DB) http.Handler {
	r := &Router{svc: svc, cfg: cfg}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if cfg.RateLimit.Capacity > 0 {
		mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec))
	}
	if len(cfg.Auth.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	}

	var checkers map[string]middleware.HealthChecker
	if db != nil {
		checkers = map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		}
	}
	configured := map[string]bool{
		"openai_configured": cfg.AI.APIKey != "",
		"jira_configured":   cfg.Jira.APIToken != "" && cfg.Jira.Email != "",
		"github_configured": cfg.GitHub.Token != "",
	}

	mux.Get("/", r.handleRoot)
	mux.Get("/health", middleware.HealthHandler(config.ServiceName, configured, checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Post("/analyze", r.wrap(r.handleAnalyze))
	mux.Post("/analyze/raw", r.wrap(r.handleAnalyzeRaw))
	mux.Post("/webhook/jira", r.wrap(r.handleJiraWebhook))
	mux.Post("/webhook/sentry", r.wrap(r.handleSentryWebhook))

	if svc.Records != nil {
		mux.Get("/records", r.wrap(r.handleListRecords))
		mux.Get("/records/{key}", r.wrap(r.handleGetRecord))
	}

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, errBadRequest) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, domai.ErrQuotaExceeded) {
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// ackResponse acknowledges a webhook without running the pipeline.
type ackResponse struct {
	Status   string           `json:"status"`
	IssueKey string           `json:"issue_key"`
	Sentry   *sentry.IssueRef `json:"sentry,omitempty"`
	Triage   map[string]bool  `json:"triage,omitempty"`
	Analysis map[string]bool  `json:"analysis,omitempty"`
	Message  string           `json:"message"`
}

// GET /
func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) {
	resp := map[string]any{
		"service": config.ServiceName,
		"version": config.Version,
		"endpoints": map[string]string{
			"POST /webhook/sentry": "Receive Sentry alert webhooks",
			"POST /webhook/jira":   "Receive Jira issue webhooks",
			"POST /analyze":        "Manual analysis trigger",
			"GET /records":         "Analysis history",
			"GET /health":          "Health check",
			"GET /metrics":         "Runtime metrics",
		},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// POST /analyze
// Body: {"jira_issue_key": "PROJ-1", "sentry_data_raw": "# Issue ...", "sentry_org": "...", "sentry_issue_id": "..."}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		JiraIssueKey  string `json:"jira_issue_key"`
		SentryDataRaw string `json:"sentry_data_raw"`
		SentryOrg     string `json:"sentry_org"`
		SentryIssueID string `json:"sentry_issue_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if body.JiraIssueKey == "" {
		return fmt.Errorf("%w: jira_issue_key is required", errBadRequest)
	}
	if err := middleware.ValidateTicketKey(body.JiraIssueKey); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	body.SentryDataRaw = middleware.SanitizeString(body.SentryDataRaw)
	if body.SentryDataRaw == "" {
		return fmt.Errorf("%w: sentry_data_raw is required. Provide the Sentry issue text", errBadRequest)
	}
	if err := middleware.ValidateOrgSlug(body.SentryOrg); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := middleware.ValidateIssueID(body.SentryIssueID); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	middleware.IncrementAnalyses()
	result, err := r.svc.Analyze(req.Context(), apptriage.AnalyzeCommand{
		TicketKey:     body.JiraIssueKey,
		SentryOrg:     body.SentryOrg,
		SentryIssueID: body.SentryIssueID,
		RawIssueText:  body.SentryDataRaw,
	})
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(result)
}

// POST /analyze/raw
// Accepts any JSON object, useful when poking at webhook payloads.
func (r *Router) handleAnalyzeRaw(w http.ResponseWriter, req *http.Request) error {
	var body map[string]any
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	resp := map[string]any{
		"status":       "received",
		"payload_keys": keys,
		"message":      "Use /analyze endpoint for actual processing",
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// POST /webhook/jira
// Acknowledges the issue and reports any Sentry reference found in the
// description. The actual analysis still goes through /analyze.
func (r *Router) handleJiraWebhook(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		WebhookEvent string `json:"webhookEvent"`
		Issue        struct {
			Key    string `json:"key"`
			Fields struct {
				Description json.RawMessage `json:"description"`
			} `json:"fields"`
		} `json:"issue"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if body.Issue.Key == "" {
		return fmt.Errorf("%w: issue key is required", errBadRequest)
	}

	// Description arrives as a plain string or an ADF document.
	var desc any
	if len(body.Issue.Fields.Description) > 0 {
		_ = json.Unmarshal(body.Issue.Fields.Description, &desc)
	}
	text := tickets.PlainText(desc)

	resp := ackResponse{
		Status:   "received",
		IssueKey: body.Issue.Key,
		Message: fmt.Sprintf(
			"Jira issue %s received. Use /analyze endpoint with sentry_data_raw to complete analysis.",
			body.Issue.Key),
	}
	if ref, ok := sentry.ExtractIssueRef(text); ok {
		resp.Sentry = &ref
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// POST /webhook/sentry
// Sentry alerts carry no Jira key, so this only acknowledges receipt.
func (r *Router) handleSentryWebhook(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Action string `json:"action"`
		Data   struct {
			Issue map[string]any `json:"issue"`
			Event map[string]any `json:"event"`
		} `json:"data"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	issueID := stringField(body.Data.Issue, "id")
	if issueID == "" {
		issueID = stringField(body.Data.Event, "event_id")
	}

	w.Header().Set("Content-Type", "application/json")

	if issueID == "" {
		return json.NewEncoder(w).Encode(ackResponse{
			Status:   "skipped",
			IssueKey: "N/A",
			Message:  "No issue ID in webhook payload",
		})
	}

	title := stringField(body.Data.Issue, "title")
	if title == "" {
		title = stringField(body.Data.Event, "title")
	}
	if title == "" {
		title = "Unknown Error"
	}

	return json.NewEncoder(w).Encode(ackResponse{
		Status:   "received",
		IssueKey: issueID,
		Triage:   map[string]bool{"pending": true},
		Analysis: map[string]bool{"pending": true},
		Message: fmt.Sprintf(
			"Sentry alert received: %s. Use /analyze endpoint with Jira issue key to process.", title),
	})
}

// GET /records?page=&page_size=
func (r *Router) handleListRecords(w http.ResponseWriter, req *http.Request) error {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))
	page = middleware.ValidatePage(page)
	size = middleware.ValidatePageSize(size)

	list, err := r.svc.ListRecords(req.Context(), page, size)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /records/{key}
func (r *Router) handleGetRecord(w http.ResponseWriter, req *http.Request) error {
	key := chi.URLParam(req, "key")
	if err := middleware.ValidateTicketKey(key); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	rec, err := r.svc.LatestRecord(req.Context(), key)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(rec)
}

// stringField reads a JSON field that may arrive as string or number.
func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
