package store

const schema = `
CREATE TABLE IF NOT EXISTS agents (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    author_name TEXT NOT NULL DEFAULT '',
    current_version TEXT NOT NULL DEFAULT '1.0.0',
    tags TEXT NOT NULL DEFAULT '[]',
    keywords TEXT NOT NULL DEFAULT '[]',
    download_count INTEGER NOT NULL DEFAULT 0,
    view_count INTEGER NOT NULL DEFAULT 0,
    license TEXT NOT NULL DEFAULT '',
    homepage TEXT NOT NULL DEFAULT '',
    repository TEXT NOT NULL DEFAULT '',
    readme TEXT NOT NULL DEFAULT '',
    is_public BOOLEAN NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS rate_windows (
    identifier TEXT NOT NULL,
    endpoint TEXT NOT NULL,
    window_start TIMESTAMP NOT NULL,
    request_count INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (identifier, endpoint, window_start)
);

CREATE INDEX IF NOT EXISTS idx_agents_public ON agents(is_public);
CREATE INDEX IF NOT EXISTS idx_agents_downloads ON agents(download_count);
CREATE INDEX IF NOT EXISTS idx_agents_author ON agents(author_name);
CREATE INDEX IF NOT EXISTS idx_rate_windows_start ON rate_windows(window_start);
`
