package schema

import "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/models"

// TableSpec is the base definition of a table plus its secondary indexes.
// Definitions use dialect placeholders resolved at execution time:
// {uuid}, {money}, {date}, {ts} and {json}.
type TableSpec struct {
	Name       string
	Definition string
	Indexes    []string
}

// ColumnSpec is a column added to a live table after it was first created.
type ColumnSpec struct {
	Name       string
	Definition string
}

// CoreTables lists every table in dependency order.
var CoreTables = []TableSpec{
	{
		Name: models.TableUsers,
		Definition: `id {uuid} PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	password_hash VARCHAR(255),
	name VARCHAR(255),
	avatar_url TEXT,
	created_at {ts} NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at {ts} NOT NULL DEFAULT CURRENT_TIMESTAMP`,
	},
	{
		Name: models.TableIncome,
		Definition: `id {uuid} PRIMARY KEY,
	user_id {uuid} NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	amount {money} NOT NULL,
	source VARCHAR(255) NOT NULL,
	category VARCHAR(100),
	date {date} NOT NULL,
	description TEXT,
	account_id VARCHAR(100),
	account_type VARCHAR(10),
	created_at {ts} NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at {ts} NOT NULL DEFAULT CURRENT_TIMESTAMP`,
		Indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_income_user_date ON income (user_id, date)",
		},
	},
	{
		Name: models.TableExpenses,
		Definition: `id {uuid} PRIMARY KEY,
	user_id {uuid} NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	amount {money} NOT NULL,
	category VARCHAR(100) NOT NULL DEFAULT 'Other',
	date {date} NOT NULL,
	description TEXT,
	account_id VARCHAR(100),
	account_type VARCHAR(10),
	created_at {ts} NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at {ts} NOT NULL DEFAULT CURRENT_TIMESTAMP`,
		Indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_expenses_user_date ON expenses (user_id, date)",
		},
	},
	{
		Name: models.TableAccountTransactions,
		Definition: `id {uuid} PRIMARY KEY,
	user_id {uuid} NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	type VARCHAR(10) NOT NULL CHECK (type IN ('income', 'expense')),
	amount {money} NOT NULL,
	name VARCHAR(255) NOT NULL,
	category VARCHAR(100),
	date {date} NOT NULL,
	account_type VARCHAR(10),
	note TEXT,
	created_at {ts} NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at {ts} NOT NULL DEFAULT CURRENT_TIMESTAMP`,
		Indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_account_transactions_user_type ON account_transactions (user_id, type)",
		},
	},
	{
		Name: models.TableDebts,
		Definition: `id {uuid} PRIMARY KEY,
	user_id {uuid} NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	type VARCHAR(10) NOT NULL CHECK (type IN ('given', 'received')),
	amount {money} NOT NULL,
	person_name VARCHAR(255) NOT NULL,
	description TEXT,
	date {date} NOT NULL,
	status VARCHAR(10) NOT NULL DEFAULT 'pending',
	created_at {ts} NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at {ts} NOT NULL DEFAULT CURRENT_TIMESTAMP`,
		Indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_debts_user_status ON debts (user_id, type, status)",
		},
	},
	{
		Name: models.TableUserSettings,
		Definition: `id {uuid} PRIMARY KEY,
	user_id {uuid} NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	created_at {ts} NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at {ts} NOT NULL DEFAULT CURRENT_TIMESTAMP`,
	},
	{
		Name: models.TableAuditLogs,
		Definition: `id {uuid} PRIMARY KEY,
	user_id {uuid} NOT NULL,
	action VARCHAR(64) NOT NULL,
	resource_type VARCHAR(64) NOT NULL,
	resource_id VARCHAR(64),
	ip_address VARCHAR(64),
	changes TEXT,
	created_at {ts} NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at {ts} NOT NULL DEFAULT CURRENT_TIMESTAMP`,
		Indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_audit_logs_user ON audit_logs (user_id)",
		},
	},
}

// SettingsColumns is the column set user_settings has grown over its life,
// in the order the columns were introduced. Append only.
var SettingsColumns = []ColumnSpec{
	{Name: "currency", Definition: "VARCHAR(3) DEFAULT 'USD'"},
	{Name: "language", Definition: "VARCHAR(10) DEFAULT 'en'"},
	{Name: "custom_categories", Definition: "{json} DEFAULT '[]'"},
	{Name: "accounts", Definition: "{json} DEFAULT '[]'"},
	{Name: "analytics_preferences", Definition: "{json} DEFAULT '{}'"},
}
