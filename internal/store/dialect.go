package store

import (
	"strconv"
	"strings"
)

// dialect captures the only engine-specific SQL: placeholder style, the
// insert-ignore idiom and the boolean literal. Everything else is shared.
type dialect struct {
	name       string
	driver     string
	boolTrue   string
	insertLead string
	schema     string
}

var sqliteDialect = dialect{
	name:       "sqlite",
	driver:     "sqlite",
	boolTrue:   "1",
	insertLead: `INSERT OR IGNORE INTO leads (session_id, created_at) VALUES (?, ?)`,
	schema: `
		CREATE TABLE IF NOT EXISTS leads (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id         TEXT UNIQUE NOT NULL,
			nome               TEXT,
			empresa            TEXT,
			segmento           TEXT,
			problema           TEXT,
			investimento_atual TEXT,
			telefone           TEXT,
			email              TEXT,
			qualificado        INTEGER NOT NULL DEFAULT 0,
			conversa_completa  TEXT,
			created_at         TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS mensagens (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id  TEXT NOT NULL,
			role        TEXT NOT NULL,
			content     TEXT NOT NULL,
			timestamp   TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_leads_session ON leads(session_id);
		CREATE INDEX IF NOT EXISTS idx_mensagens_session ON mensagens(session_id);
		CREATE INDEX IF NOT EXISTS idx_mensagens_timestamp ON mensagens(timestamp);
	`,
}

var postgresDialect = dialect{
	name:     "postgres",
	driver:   "pgx",
	boolTrue: "TRUE",
	insertLead: `INSERT INTO leads (session_id, created_at) VALUES (?, ?)
		ON CONFLICT (session_id) DO NOTHING`,
	schema: `
		CREATE TABLE IF NOT EXISTS leads (
			id                 SERIAL PRIMARY KEY,
			session_id         TEXT UNIQUE NOT NULL,
			nome               TEXT,
			empresa            TEXT,
			segmento           TEXT,
			problema           TEXT,
			investimento_atual TEXT,
			telefone           TEXT,
			email              TEXT,
			qualificado        BOOLEAN NOT NULL DEFAULT FALSE,
			conversa_completa  TEXT,
			created_at         TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS mensagens (
			id          SERIAL PRIMARY KEY,
			session_id  TEXT NOT NULL,
			role        TEXT NOT NULL,
			content     TEXT NOT NULL,
			timestamp   TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_leads_session ON leads(session_id);
		CREATE INDEX IF NOT EXISTS idx_mensagens_session ON mensagens(session_id);
		CREATE INDEX IF NOT EXISTS idx_mensagens_timestamp ON mensagens(timestamp);
	`,
}

// rebind rewrites ?-style placeholders to the numbered form Postgres
// expects. Queries are written with ? throughout; SQLite takes them as-is.
func (d dialect) rebind(query string) string {
	if d.name != "postgres" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// dialectFor selects the engine by connection-string prefix: a Postgres URL
// selects the pgx driver, anything else is treated as a SQLite file path.
func dialectFor(databaseURL string) (dialect, string) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return postgresDialect, databaseURL
	}
	return sqliteDialect, strings.TrimPrefix(databaseURL, "sqlite://")
}
