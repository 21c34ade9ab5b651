package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"digitora/internal/admin"
	"digitora/internal/advisor"
	"digitora/internal/catalog"
	"digitora/internal/enroll"
	"digitora/internal/ratelimit"
	"digitora/internal/util"
	"digitora/pkg/domain"
)

const maxBodyBytes = 1 << 20

// PaymentMode selects how purchase confirmations reach the server.
type PaymentMode string

const (
	PaymentManual  PaymentMode = "manual"
	PaymentWebhook PaymentMode = "webhook"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	Catalog  *catalog.Store
	Flow     *enroll.Flow
	Advisor  *advisor.Advisor
	Editor   *admin.Editor
	Sessions *admin.SessionManager

	PaymentMode             PaymentMode
	RedisAddr               string
	RedisPassword           string
	ChatRateLimitPerMinute  int
	LoginRateLimitPerMinute int
}

// Server exposes the storefront HTTP API.
type Server struct {
	catalog     *catalog.Store
	flow        *enroll.Flow
	advisor     *advisor.Advisor
	editor      *admin.Editor
	sessions    *admin.SessionManager
	paymentMode PaymentMode
	mux         *http.ServeMux

	chatLimiter  *ratelimit.FixedWindowLimiter
	loginLimiter *ratelimit.FixedWindowLimiter
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	chatLimit := cfg.ChatRateLimitPerMinute
	if chatLimit <= 0 {
		chatLimit = 10
	}
	loginLimit := cfg.LoginRateLimitPerMinute
	if loginLimit <= 0 {
		loginLimit = 5
	}
	switch cfg.PaymentMode {
	case PaymentManual, PaymentWebhook:
	default:
		return nil, fmt.Errorf("unknown payment mode %q", cfg.PaymentMode)
	}
	newLimiter := func(name string, limit int) (*ratelimit.FixedWindowLimiter, error) {
		prefix := "digitora:ratelimit:" + name
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, prefix, limit, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("init %s limiter: %w", name, err)
		}
		return limiter, nil
	}
	chatLimiter, err := newLimiter("chat", chatLimit)
	if err != nil {
		return nil, err
	}
	loginLimiter, err := newLimiter("login", loginLimit)
	if err != nil {
		return nil, err
	}
	s := &Server{
		catalog:      cfg.Catalog,
		flow:         cfg.Flow,
		advisor:      cfg.Advisor,
		editor:       cfg.Editor,
		sessions:     cfg.Sessions,
		paymentMode:  cfg.PaymentMode,
		mux:          http.NewServeMux(),
		chatLimiter:  chatLimiter,
		loginLimiter: loginLimiter,
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithRequestLog(util.WithSecurityHeaders(util.WithCORS(s.mux)))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// catalog
	s.mux.HandleFunc("/api/courses", s.handleCourses)
	s.mux.HandleFunc("/api/courses/", s.handleCourseSubtree)
	s.mux.HandleFunc("/api/categories", s.handleCategories)

	// purchase
	s.mux.HandleFunc("/api/payments/confirm", s.handlePaymentConfirm)
	s.mux.HandleFunc("/api/payments/webhook", s.handlePaymentWebhook)
	s.mux.HandleFunc("/api/entitlements", s.handleEntitlements)

	// advisor
	s.mux.HandleFunc("/api/advisor/messages", s.handleAdvisorMessages)
	s.mux.HandleFunc("/api/advisor/chat", s.handleAdvisorChat)

	// admin
	s.mux.HandleFunc("/api/admin/login", s.handleAdminLogin)
	s.mux.Handle("/api/admin/courses", s.adminOnly(s.handleAdminCourses))
	s.mux.Handle("/api/admin/courses/", s.adminOnly(s.handleAdminCourseByID))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type listResponse struct {
	Items []domain.Course `json:"items"`
	Count int             `json:"count"`
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	q := r.URL.Query()

	view := domain.ViewStandard
	if raw := strings.TrimSpace(q.Get("view")); raw != "" {
		switch domain.ViewMode(raw) {
		case domain.ViewStandard:
			view = domain.ViewStandard
		case domain.ViewPremium:
			view = domain.ViewPremium
		default:
			writeError(w, http.StatusBadRequest, "unknown view (want standard or premium)")
			return
		}
	}

	category := domain.CategoryCrypto
	if raw := strings.TrimSpace(q.Get("category")); raw != "" {
		parsed, ok := domain.ParseCategory(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown category")
			return
		}
		category = parsed
	}

	items := catalog.Filter(s.catalog.Courses(), view, category, q.Get("q"))
	writeJSON(w, http.StatusOK, listResponse{Items: items, Count: len(items)})
}

func (s *Server) handleCourseSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/courses/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusNotFound, "course id required")
		return
	}
	switch action {
	case "":
		s.handleCourseByID(w, r, id)
	case "checkout":
		s.handleCheckout(w, r, id)
	case "download":
		s.handleDownload(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) handleCourseByID(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	course, ok := s.catalog.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "course not found")
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"standard": domain.StandardCategories(),
		"all":      domain.Categories(),
	})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	checkout, err := s.flow.Checkout(id)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkout)
}

type confirmRequest struct {
	CourseID string `json:"courseId"`
}

func (s *Server) handlePaymentConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if s.paymentMode != PaymentManual {
		s.audit(r, "payment.confirm", "fail", "reason", "manual_mode_disabled")
		writeError(w, http.StatusNotFound, "manual confirmation is disabled")
		return
	}
	var req confirmRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.CourseID) == "" {
		writeError(w, http.StatusBadRequest, "courseId is required")
		return
	}
	if err := s.flow.Confirm(r.Context(), req.CourseID, enroll.Proof{}); err != nil {
		s.audit(r, "payment.confirm", "fail", "course_id", req.CourseID, "reason", err.Error())
		writeFlowError(w, err)
		return
	}
	s.audit(r, "payment.confirm", "success", "course_id", req.CourseID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "entitled", "courseId": req.CourseID})
}

// sigHeader is the IPN signature header sent by the payment provider.
const sigHeader = "X-Nowpayments-Sig"

type webhookPayload struct {
	OrderID string `json:"order_id"`
}

func (s *Server) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if s.paymentMode != PaymentWebhook {
		s.audit(r, "payment.webhook", "fail", "reason", "webhook_mode_disabled")
		writeError(w, http.StatusNotFound, "payment webhook is disabled")
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil || strings.TrimSpace(payload.OrderID) == "" {
		s.audit(r, "payment.webhook", "fail", "reason", "invalid_payload")
		writeError(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}
	proof := enroll.Proof{Body: body, Signature: r.Header.Get(sigHeader)}
	if err := s.flow.Confirm(r.Context(), payload.OrderID, proof); err != nil {
		s.audit(r, "payment.webhook", "fail", "course_id", payload.OrderID, "reason", err.Error())
		writeFlowError(w, err)
		return
	}
	s.audit(r, "payment.webhook", "success", "course_id", payload.OrderID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "entitled", "courseId": payload.OrderID})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	res, err := s.flow.Download(r.Context(), id)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"url":       res.URL,
		"downloads": res.Downloads,
	})
}

func (s *Server) handleEntitlements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	ids := s.flow.EntitledIDs()
	writeJSON(w, http.StatusOK, map[string]any{"items": ids, "count": len(ids)})
}

func (s *Server) handleAdvisorMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	msgs := s.advisor.Messages()
	writeJSON(w, http.StatusOK, map[string]any{"items": msgs, "count": len(msgs)})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleAdvisorChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.chatLimiter, "too many chat requests, slow down") {
		return
	}
	var req chatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	reply, err := s.advisor.Send(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, advisor.ErrBusy) {
			writeError(w, http.StatusConflict, "advisor is busy, wait for the current reply")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.loginLimiter, "too many login attempts, try again later") {
		s.audit(r, "admin.login", "rate_limited")
		return
	}
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	token, err := s.sessions.Login(req.Password)
	if err != nil {
		s.audit(r, "admin.login", "fail")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	s.audit(r, "admin.login", "success")
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) adminOnly(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			s.audit(r, "admin.authorize", "fail", "reason", "missing_token")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if err := s.sessions.Verify(token); err != nil {
			s.audit(r, "admin.authorize", "fail", "reason", "invalid_token")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	})
}

func (s *Server) handleAdminCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var input admin.CourseInput
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	input.ID = ""
	course, err := s.editor.Save(input)
	if err != nil {
		writeEditorError(w, err)
		return
	}
	s.audit(r, "admin.course.create", "success", "course_id", course.ID)
	writeJSON(w, http.StatusCreated, course)
}

func (s *Server) handleAdminCourseByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/admin/courses/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	switch r.Method {
	case http.MethodPut:
		var input admin.CourseInput
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		input.ID = id
		course, err := s.editor.Save(input)
		if err != nil {
			writeEditorError(w, err)
			return
		}
		s.audit(r, "admin.course.update", "success", "course_id", id)
		writeJSON(w, http.StatusOK, course)
	case http.MethodDelete:
		if err := s.editor.Delete(id); err != nil {
			writeEditorError(w, err)
			return
		}
		s.audit(r, "admin.course.delete", "success", "course_id", id)
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
	default:
		methodNotAllowed(w)
	}
}

func writeFlowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrCourseNotFound):
		writeError(w, http.StatusNotFound, "course not found")
	case errors.Is(err, enroll.ErrNotEntitled):
		writeError(w, http.StatusForbidden, "course not purchased")
	case errors.Is(err, enroll.ErrPaymentRejected):
		writeError(w, http.StatusBadRequest, "payment rejected")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeEditorError(w http.ResponseWriter, err error) {
	var verr *admin.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	case errors.Is(err, catalog.ErrCourseNotFound):
		writeError(w, http.StatusNotFound, "course not found")
	case errors.Is(err, catalog.ErrDuplicateID):
		writeError(w, http.StatusConflict, "course id already exists")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", clientIP(r),
	}
	logAttrs = append(logAttrs, attrs...)
	if outcome == "success" {
		slog.Info("security_event", logAttrs...)
		return
	}
	slog.Warn("security_event", logAttrs...)
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, msg string) bool {
	key := r.URL.Path + "|" + clientIP(r)
	if limiter.Allow(key) {
		return true
	}
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, msg)
	return false
}

func clientIP(r *http.Request) string {
	if xfwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xfwd != "" {
		parts := strings.Split(xfwd, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
