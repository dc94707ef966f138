package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// timeLayout is RFC 3339 with a fixed-width fraction so that stored TEXT
// timestamps sort lexicographically in insertion order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store persists leads and conversation history in a relational database,
// either Postgres or a SQLite file depending on the connection string.
//
// Every operation except Leads swallows storage errors: it logs them and
// returns a safe zero value (false, empty slice, zeroed stats). Callers are
// expected to treat those results as authoritative and carry on degraded.
type Store struct {
	db  *sql.DB
	d   dialect
	log *zap.Logger
}

// Open connects to the database named by databaseURL, creates the schema if
// needed and returns the store. The engine is chosen by URL prefix.
func Open(databaseURL string, log *zap.Logger) (*Store, error) {
	d, dsn := dialectFor(databaseURL)

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if d.name == "sqlite" {
		// modernc sqlite serializes writes; a single connection avoids
		// SQLITE_BUSY under concurrent handlers.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set WAL mode: %w", err)
		}
	}

	s := &Store{db: db, d: d, log: log}

	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

// init creates the tables and indexes if they don't exist.
func (s *Store) init() error {
	_, err := s.db.Exec(s.d.schema)
	return err
}

// Engine returns the human label of the active engine ("SQLite" or
// "PostgreSQL").
func (s *Store) Engine() string {
	if s.d.name == "postgres" {
		return "PostgreSQL"
	}
	return "SQLite"
}

// Ping reports database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateLead inserts an empty Lead row for sessionID. Creating the same
// session twice is a no-op, not an error.
func (s *Store) CreateLead(ctx context.Context, sessionID string) bool {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx, s.d.rebind(s.d.insertLead), sessionID, now)
	if err != nil {
		s.log.Warn("create lead failed", zap.String("session_id", sessionID), zap.Error(err))
		return false
	}
	return true
}

// UpdateLead applies the set fields of upd to the Lead row matching
// sessionID. An empty update, or one against an unknown session, succeeds
// without touching anything.
func (s *Store) UpdateLead(ctx context.Context, sessionID string, upd LeadUpdate) bool {
	cols, args := upd.fields()
	if len(cols) == 0 {
		return true
	}

	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = col + " = ?"
	}
	args = append(args, sessionID)

	query := fmt.Sprintf("UPDATE leads SET %s WHERE session_id = ?", strings.Join(sets, ", "))
	if _, err := s.db.ExecContext(ctx, s.d.rebind(query), args...); err != nil {
		s.log.Warn("update lead failed", zap.String("session_id", sessionID), zap.Error(err))
		return false
	}
	return true
}

// SaveMessage appends one message to the session's history.
func (s *Store) SaveMessage(ctx context.Context, sessionID, role, content string) bool {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx, s.d.rebind(
		`INSERT INTO mensagens (session_id, role, content, timestamp) VALUES (?, ?, ?, ?)`,
	), sessionID, role, content, now)
	if err != nil {
		s.log.Warn("save message failed", zap.String("session_id", sessionID), zap.Error(err))
		return false
	}
	return true
}

// History returns the session's messages in the order they were saved.
// Empty on failure as well as for unknown sessions.
func (s *Store) History(ctx context.Context, sessionID string) []Message {
	rows, err := s.db.QueryContext(ctx, s.d.rebind(
		`SELECT role, content, timestamp FROM mensagens
		 WHERE session_id = ?
		 ORDER BY timestamp ASC, id ASC`,
	), sessionID)
	if err != nil {
		s.log.Warn("load history failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		var ts string
		if err := rows.Scan(&msg.Role, &msg.Content, &ts); err != nil {
			s.log.Warn("scan message failed", zap.Error(err))
			return nil
		}
		msg.SessionID = sessionID
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			msg.Timestamp = t
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		s.log.Warn("load history failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil
	}

	return messages
}

// Stats returns the aggregate lead counters. Zeroed on failure; the
// qualification rate is a percentage rounded to one decimal place, 0 when
// there are no leads.
func (s *Store) Stats(ctx context.Context) Stats {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*) AS total_leads,
			COUNT(CASE WHEN qualificado = %s THEN 1 END) AS leads_qualificados,
			COUNT(CASE WHEN nome IS NOT NULL AND nome <> '' THEN 1 END) AS leads_com_nome,
			COUNT(CASE WHEN email IS NOT NULL AND email <> '' THEN 1 END) AS leads_com_email
		FROM leads
	`, s.d.boolTrue)

	var st Stats
	err := s.db.QueryRowContext(ctx, query).Scan(
		&st.TotalLeads, &st.LeadsQualificados, &st.LeadsComNome, &st.LeadsComEmail)
	if err != nil {
		s.log.Warn("load stats failed", zap.Error(err))
		return Stats{}
	}

	if st.TotalLeads > 0 {
		rate := float64(st.LeadsQualificados) / float64(st.TotalLeads) * 100
		st.TaxaQualificacao = math.Round(rate*10) / 10
	}
	return st
}

// Leads returns every lead joined with its message count, newest first.
// Unlike the other operations this returns the error: the admin page
// surfaces storage failures as a 500.
func (s *Store) Leads(ctx context.Context) ([]LeadRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.session_id, l.nome, l.empresa, l.segmento, l.problema,
		       l.investimento_atual, l.telefone, l.email, l.qualificado,
		       l.conversa_completa, l.created_at,
		       COUNT(m.id) AS total_mensagens
		FROM leads l
		LEFT JOIN mensagens m ON l.session_id = m.session_id
		GROUP BY l.session_id, l.nome, l.empresa, l.segmento, l.problema,
		         l.investimento_atual, l.telefone, l.email, l.qualificado,
		         l.conversa_completa, l.created_at
		ORDER BY l.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []LeadRow
	for rows.Next() {
		var lr LeadRow
		var nome, empresa, segmento, problema, investimento sql.NullString
		var telefone, email, conversa sql.NullString
		var createdAt string

		err := rows.Scan(&lr.SessionID, &nome, &empresa, &segmento, &problema,
			&investimento, &telefone, &email, &lr.Qualificado,
			&conversa, &createdAt, &lr.TotalMensagens)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}

		lr.Nome = nome.String
		lr.Empresa = empresa.String
		lr.Segmento = segmento.String
		lr.Problema = problema.String
		lr.InvestimentoAtual = investimento.String
		lr.Telefone = telefone.String
		lr.Email = email.String
		lr.ConversaCompleta = conversa.String
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			lr.CreatedAt = t
		}

		leads = append(leads, lr)
	}

	return leads, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
