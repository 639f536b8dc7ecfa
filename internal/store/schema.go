package store

// Every row hangs off file_tracker so replacing or forgetting a ledger file
// drops everything it contributed.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    parse_errors         INTEGER NOT NULL DEFAULT 0,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
    file_path            TEXT PRIMARY KEY REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    balance              TEXT NOT NULL,
    monthly_income       TEXT NOT NULL,
    monthly_expenses     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    file_path            TEXT NOT NULL REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    pos                  INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    spent                TEXT NOT NULL,
    limit_amount         TEXT NOT NULL,
    color                TEXT,
    PRIMARY KEY (file_path, pos)
);

CREATE TABLE IF NOT EXISTS goals (
    file_path            TEXT NOT NULL REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    pos                  INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    current_amount       TEXT NOT NULL,
    target_amount        TEXT NOT NULL,
    monthly_contribution TEXT NOT NULL,
    PRIMARY KEY (file_path, pos)
);

CREATE TABLE IF NOT EXISTS transactions (
    file_path            TEXT NOT NULL REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    pos                  INTEGER NOT NULL,
    tx_id                TEXT NOT NULL,
    name                 TEXT,
    category             TEXT,
    amount               TEXT NOT NULL,
    tx_date              TEXT NOT NULL,
    status               TEXT NOT NULL,
    recurring            INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (file_path, pos)
);

CREATE TABLE IF NOT EXISTS monthly (
    file_path            TEXT NOT NULL REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    pos                  INTEGER NOT NULL,
    month                TEXT NOT NULL,
    income               TEXT NOT NULL,
    spending             TEXT NOT NULL,
    PRIMARY KEY (file_path, pos)
);

CREATE TABLE IF NOT EXISTS notes (
    file_path            TEXT NOT NULL REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    pos                  INTEGER NOT NULL,
    section              TEXT NOT NULL,
    body                 TEXT NOT NULL,
    PRIMARY KEY (file_path, pos)
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(tx_date);
`
