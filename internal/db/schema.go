package db

// Records keep their extraction-time identifiers as primary keys, so
// re-running a batch over the same corpus replaces rows instead of
// duplicating them.
const schema = `
CREATE TABLE IF NOT EXISTS records (
    id TEXT PRIMARY KEY,
    date DATETIME,
    subject TEXT,
    sender TEXT,
    recipients TEXT,
    cc TEXT,
    bcc TEXT,
    body_clean TEXT,
    source_ref TEXT NOT NULL,
    thread_id TEXT NOT NULL,
    indexed_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_records_thread ON records(thread_id);
CREATE INDEX IF NOT EXISTS idx_records_date ON records(date DESC);
CREATE INDEX IF NOT EXISTS idx_records_sender ON records(sender);
CREATE INDEX IF NOT EXISTS idx_records_source_ref ON records(source_ref);
`
