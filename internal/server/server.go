// Package server exposes the HTTP surface: the chat page, the chat
// endpoint, a health check and the admin lead dashboard. The store and
// gateway are constructed once at startup and injected; either may be nil,
// in which case the affected endpoints answer 500 and the rest keep
// working.
package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/gvieira/leadchat/internal/config"
	"github.com/gvieira/leadchat/internal/gateway"
	"github.com/gvieira/leadchat/internal/store"
)

const (
	sessionName = "leadchat_session"
	sessionKey  = "session_id"
)

type Server struct {
	store    *store.Store
	gateway  *gateway.Gateway
	cfg      *config.Config
	sessions *sessions.CookieStore
	log      *zap.Logger
}

func New(st *store.Store, gw *gateway.Gateway, cfg *config.Config, log *zap.Logger) *Server {
	cs := sessions.NewCookieStore([]byte(cfg.SecretKey))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
	}
	return &Server{
		store:    st,
		gateway:  gw,
		cfg:      cfg,
		sessions: cs,
		log:      log,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/admin/leads", s.handleAdminLeads)
	return s.recoverer(mux)
}

// recoverer catches panics escaping a handler and turns them into the
// generic 500 the client expects.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("handler panic",
					zap.String("path", r.URL.Path), zap.Any("panic", rec))
				writeJSON(w, http.StatusInternalServerError,
					map[string]string{"error": "Erro interno do servidor"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// handleIndex serves the chat page, bootstrapping a session and its Lead
// row on first visit.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	sess, _ := s.sessions.Get(r, sessionName)
	if _, ok := sess.Values[sessionKey].(string); !ok {
		id := uuid.NewString()
		sess.Values[sessionKey] = id
		if err := sess.Save(r, w); err != nil {
			s.log.Warn("save session failed", zap.Error(err))
		}
		if s.store != nil {
			s.store.CreateLead(r.Context(), id)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(chatPageHTML))
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// handleChat runs one chat turn: persist the user message, assemble the
// bounded prompt from the history saved before this turn, call the gateway
// and persist the reply.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "método não permitido"})
		return
	}
	if s.gateway == nil {
		writeJSON(w, http.StatusInternalServerError,
			map[string]string{"error": "Chatbot não configurado. Verifique GROQ_API_KEY."})
		return
	}
	if s.store == nil {
		writeJSON(w, http.StatusInternalServerError,
			map[string]string{"error": "Sistema de banco não configurado."})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON inválido"})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Mensagem vazia"})
		return
	}

	sess, _ := s.sessions.Get(r, sessionName)
	sessionID, ok := sess.Values[sessionKey].(string)
	if !ok || sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Sessão inválida"})
		return
	}

	ctx := r.Context()

	history := toGatewayMessages(s.store.History(ctx, sessionID))
	s.store.SaveMessage(ctx, sessionID, "user", message)

	reply := s.gateway.GetResponse(ctx, message, history)

	s.store.SaveMessage(ctx, sessionID, "assistant", reply)

	writeJSON(w, http.StatusOK, chatResponse{Response: reply, SessionID: sessionID})
}

func toGatewayMessages(history []store.Message) []gateway.Message {
	out := make([]gateway.Message, len(history))
	for i, msg := range history {
		out[i] = gateway.Message{Role: msg.Role, Content: msg.Content}
	}
	return out
}

// handleHealth reports configuration and connectivity flags, plus the lead
// stats when the store is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"status":         "ok",
		"llm_configured": s.gateway != nil,
		"provider":       s.cfg.Provider,
		"database":       "error",
		"database_type":  s.cfg.DatabaseType(),
		"environment":    s.cfg.Env,
	}

	if s.store != nil {
		if err := s.store.Ping(r.Context()); err == nil {
			payload["database"] = "connected"
			st := s.store.Stats(r.Context())
			payload["total_leads"] = st.TotalLeads
			payload["leads_qualificados"] = st.LeadsQualificados
			payload["leads_com_nome"] = st.LeadsComNome
			payload["leads_com_email"] = st.LeadsComEmail
			payload["taxa_qualificacao"] = st.TaxaQualificacao
		}
	}

	writeJSON(w, http.StatusOK, payload)
}

// leadView is a LeadRow prepared for the admin template: empty attributes
// rendered as N/A and the problem description truncated for the table cell.
type leadView struct {
	CreatedAt      string
	Nome           string
	Empresa        string
	Segmento       string
	Problema       string
	ProblemaFull   string
	Investimento   string
	Telefone       string
	Email          string
	Qualificado    bool
	TotalMensagens int
}

func (s *Server) handleAdminLeads(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "Sistema de banco não configurado", http.StatusInternalServerError)
		return
	}

	rows, err := s.store.Leads(r.Context())
	if err != nil {
		s.log.Error("list leads failed", zap.Error(err))
		http.Error(w, "Erro ao carregar leads", http.StatusInternalServerError)
		return
	}

	views := make([]leadView, len(rows))
	for i, lr := range rows {
		views[i] = leadView{
			CreatedAt:      lr.CreatedAt.Format("2006-01-02 15:04"),
			Nome:           orNA(lr.Nome),
			Empresa:        orNA(lr.Empresa),
			Segmento:       orNA(lr.Segmento),
			Problema:       truncate(orNA(lr.Problema), 30),
			ProblemaFull:   orNA(lr.Problema),
			Investimento:   orNA(lr.InvestimentoAtual),
			Telefone:       orNA(lr.Telefone),
			Email:          orNA(lr.Email),
			Qualificado:    lr.Qualificado,
			TotalMensagens: lr.TotalMensagens,
		}
	}

	data := struct {
		Stats  store.Stats
		Leads  []leadView
		Engine string
		Env    string
	}{
		Stats:  s.store.Stats(r.Context()),
		Leads:  views,
		Engine: s.store.Engine(),
		Env:    s.cfg.Env,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := adminTemplate.Execute(w, data); err != nil {
		s.log.Error("render admin page failed", zap.Error(err))
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
