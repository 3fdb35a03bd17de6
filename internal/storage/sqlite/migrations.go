package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// Cascading deletes are orchestrated explicitly by the store rather than
// through ON DELETE CASCADE, so every child removal is visible in one
// place (DeleteBudget).
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS group_budgets (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    total_amount REAL NOT NULL,
    cadence TEXT NOT NULL,
    duration INTEGER NOT NULL,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    category_id TEXT NOT NULL DEFAULT '',
    creator_id TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at TEXT NOT NULL,
    FOREIGN KEY (creator_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS periods (
    id TEXT PRIMARY KEY,
    budget_id TEXT NOT NULL,
    number INTEGER NOT NULL,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    target_amount REAL NOT NULL,
    spent_amount REAL NOT NULL DEFAULT 0,
    UNIQUE (budget_id, number),
    FOREIGN KEY (budget_id) REFERENCES group_budgets(id)
);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    period_id TEXT NOT NULL,
    budget_id TEXT NOT NULL,
    amount REAL NOT NULL,
    kind TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    occurred_on TEXT NOT NULL,
    created_by TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (period_id) REFERENCES periods(id),
    FOREIGN KEY (budget_id) REFERENCES group_budgets(id)
);

CREATE TABLE IF NOT EXISTS memberships (
    id TEXT PRIMARY KEY,
    budget_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL,
    joined_at TEXT NOT NULL,
    UNIQUE (budget_id, user_id),
    FOREIGN KEY (budget_id) REFERENCES group_budgets(id),
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS invitations (
    id TEXT PRIMARY KEY,
    budget_id TEXT NOT NULL,
    email TEXT NOT NULL,
    inviter_id TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    invited_at TEXT NOT NULL,
    responded_at TEXT,
    FOREIGN KEY (budget_id) REFERENCES group_budgets(id)
);

CREATE TABLE IF NOT EXISTS confirmations (
    id TEXT PRIMARY KEY,
    period_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    confirmed_at TEXT NOT NULL,
    UNIQUE (period_id, user_id),
    FOREIGN KEY (period_id) REFERENCES periods(id),
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_periods_budget_id ON periods(budget_id);
CREATE INDEX IF NOT EXISTS idx_transactions_period_id ON transactions(period_id);
CREATE INDEX IF NOT EXISTS idx_transactions_budget_id ON transactions(budget_id);
CREATE INDEX IF NOT EXISTS idx_memberships_budget_id ON memberships(budget_id);
CREATE INDEX IF NOT EXISTS idx_memberships_user_id ON memberships(user_id);
CREATE INDEX IF NOT EXISTS idx_invitations_budget_id ON invitations(budget_id);
CREATE INDEX IF NOT EXISTS idx_invitations_email ON invitations(email);
CREATE INDEX IF NOT EXISTS idx_confirmations_period_id ON confirmations(period_id);

-- At most one pending invitation per (budget, email); terminal rows don't count.
CREATE UNIQUE INDEX IF NOT EXISTS idx_invitations_pending
    ON invitations(budget_id, email) WHERE status = 'pending';
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
