package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/redraft-ai/redraft/app"
	"github.com/redraft-ai/redraft/domain"
	"github.com/redraft-ai/redraft/internal/config"
	"github.com/redraft-ai/redraft/internal/version"
	"github.com/redraft-ai/redraft/service"
)

// Server hosts the interactive review surface: it accepts analysis
// results, renders them, and relays rewrites and feedback to the
// backend.
type Server struct {
	cfg       *config.Config
	sessionID string

	review   *service.ReviewServiceImpl
	feedback *app.FeedbackUseCase
	rewrite  *app.RewriteUseCase
	filters  *service.SmartFilterEngine
	adapter  *service.ProgressAdapter
	cache    *service.DocumentCache
	hub      *Hub
	store    domain.StringStore
	closeFns []func() error

	mu     sync.RWMutex
	result *domain.AnalysisResult
}

// New assembles a review server from configuration.
func New(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	sessionID := uuid.NewString()

	var store domain.StringStore
	var closeFns []func() error
	if cfg.Server.StoragePath != "" {
		sqlStore, err := service.OpenSQLiteStore(cfg.Server.StoragePath, sessionID)
		if err != nil {
			log.Printf("session store unavailable, falling back to memory: %v", err)
			store = service.NewMemoryStore()
		} else {
			store = sqlStore
			closeFns = append(closeFns, sqlStore.Close)
		}
	} else {
		store = service.NewMemoryStore()
	}

	backend := service.NewBackendClient(cfg.Server.BackendURL)
	feedbackSvc := service.NewFeedbackService(store, backend, sessionID)
	orchestrator := service.NewRewriteOrchestrator(backend, sessionID)
	adapter := service.NewProgressAdapter(orchestrator)

	registry := service.NewRegistry()
	reviewSvc := service.NewReviewService(registry, feedbackSvc, sessionID)

	s := &Server{
		cfg:       cfg,
		sessionID: sessionID,
		review:    reviewSvc,
		feedback:  app.NewFeedbackUseCase(feedbackSvc),
		rewrite:   app.NewRewriteUseCase(orchestrator),
		filters:   service.NewSmartFilterEngine(store),
		adapter:   adapter,
		cache:     service.NewDocumentCache(service.NewAnalysisLoader()),
		store:     store,
		closeFns:  closeFns,
	}

	s.hub = NewHub(adapter.Handle)
	orchestrator.SetListener(func(blockID string, state domain.RewriteState) {
		s.broadcastRewriteState(blockID, state)
	})

	return s, nil
}

// SessionID returns this server's session identifier.
func (s *Server) SessionID() string {
	return s.sessionID
}

// Handler builds the HTTP mux for the review surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/review", s.handleReview)
	mux.HandleFunc("/api/analyze-file", s.handleAnalyzeFile)
	mux.HandleFunc("/rewrite-block", s.handleRewriteBlock)
	mux.HandleFunc("/api/feedback", s.handleFeedback)
	mux.HandleFunc("/api/filters", s.handleFilters)
	mux.HandleFunc("/ws", s.hub.ServeWS)
	return mux
}

// ListenAndServe runs the hub and serves HTTP on the configured address.
func (s *Server) ListenAndServe() error {
	go s.hub.Run()
	log.Printf("redraft %s listening on %s (session %s)", version.Short(), s.cfg.Server.ListenAddr, s.sessionID)
	return http.ListenAndServe(s.cfg.Server.ListenAddr, s.Handler())
}

// Close releases held resources.
func (s *Server) Close() error {
	var firstErr error
	for _, fn := range s.closeFns {
		if err := fn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SetResult installs a new analysis result, clearing rewrite state tied
// to the previous tree.
func (s *Server) SetResult(result *domain.AnalysisResult) {
	s.mu.Lock()
	s.result = result
	s.mu.Unlock()
	s.rewrite.Reset()
}

func (s *Server) currentResult() *domain.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/review", http.StatusFound)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result := s.currentResult()
	if path := r.URL.Query().Get("file"); path != "" {
		loaded, err := s.cache.Load(path)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if loaded != result {
			s.SetResult(loaded)
		}
		result = loaded
	}
	if result == nil {
		http.Error(w, "no analysis loaded; POST /api/analyze-file first", http.StatusNotFound)
		return
	}

	active, _ := s.filters.State()
	req := domain.ReviewRequest{
		OutputFormat:  domain.OutputFormatHTML,
		MinConfidence: s.cfg.Review.MinConfidence,
		ActiveFilters: activeSlice(active),
		SortBy:        domain.SortByConfidence,
	}

	response, err := s.review.Render(r.Context(), result, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, response.HTML)
}

func (s *Server) handleAnalyzeFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var result domain.AnalysisResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "invalid analysis payload: " + err.Error(),
		})
		return
	}

	s.SetResult(&result)
	s.hub.Broadcast(UpdateMessage{Type: "session_id", SessionID: s.sessionID})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"session_id":   s.sessionID,
		"total_issues": result.TotalIssueCount(),
		"received_at":  time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleRewriteBlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.RewriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "invalid rewrite payload: " + err.Error(),
		})
		return
	}

	block := &domain.Block{
		Kind:    domain.BlockKind(req.BlockType),
		Content: req.BlockContent,
		Errors:  req.BlockErrors,
	}

	state, err := s.rewrite.Rewrite(r.Context(), block, req.BlockID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": state.Status != domain.RewriteError,
		"state":   state,
	})
}

type feedbackRequest struct {
	Issue    domain.Issue            `json:"issue"`
	Decision domain.FeedbackDecision `json:"decision"`
	Reason   *domain.FeedbackReason  `json:"reason,omitempty"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "invalid feedback payload: " + err.Error(),
		})
		return
	}

	fingerprint, err := s.feedback.Submit(r.Context(), &req.Issue, req.Decision, req.Reason)
	if err != nil {
		// Local recording already happened for transport errors; report
		// the fingerprint so the UI can reflect the recorded state.
		var derr domain.DomainError
		status := http.StatusBadRequest
		if errors.As(err, &derr) && derr.Code == domain.ErrCodeNetworkError {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, map[string]interface{}{
			"success":     false,
			"fingerprint": fingerprint,
			"error":       err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"fingerprint": fingerprint,
		"stats":       s.feedback.Stats(),
	})
}

type filterRequest struct {
	Action   string              `json:"action"` // "toggle", "preset", "reset"
	Severity domain.Severity     `json:"severity,omitempty"`
	Preset   domain.FilterPreset `json:"preset,omitempty"`
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		var req filterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"error":   "invalid filter payload: " + err.Error(),
			})
			return
		}
		switch req.Action {
		case "toggle":
			s.filters.Toggle(req.Severity)
		case "preset":
			s.filters.ApplyPreset(req.Preset)
		case "reset":
			s.filters.Reset()
		default:
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"error":   "unknown filter action: " + req.Action,
			})
			return
		}
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	active, counts := s.filters.State()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"active":  activeSlice(active),
		"counts":  counts,
		"metrics": s.filters.Metrics(),
	})
}

// broadcastRewriteState pushes the rendered station strip or result for
// one block to every connected review page.
func (s *Server) broadcastRewriteState(blockID string, state domain.RewriteState) {
	var html string
	switch state.Status {
	case domain.RewriteComplete:
		html = service.RewriteResultHTML(blockID, state.Result)
	case domain.RewriteError:
		html = service.RewriteErrorHTML(blockID, state.ErrorMessage)
	default:
		html = service.StationStripHTML(blockID, state)
	}

	s.hub.Broadcast(UpdateMessage{
		Type:    "rewrite_state",
		BlockID: blockID,
		HTML:    html,
	})
}

func activeSlice(active map[domain.Severity]bool) []domain.Severity {
	var out []domain.Severity
	for _, severity := range domain.AllSeverities {
		if active[severity] {
			out = append(out, severity)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
