package postgres

// schema is applied on Bootstrap. Statements are idempotent so repeated
// startups are safe; production deployments may manage the same schema with
// external migrations instead.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id      TEXT PRIMARY KEY,
    email        TEXT NOT NULL UNIQUE,
    display_name TEXT,
    xp           INTEGER NOT NULL DEFAULT 0,
    level        INTEGER NOT NULL DEFAULT 1,
    cefr_level   TEXT NOT NULL DEFAULT 'A1',
    school_id    TEXT,
    classroom_id TEXT,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS articles (
    article_id    TEXT PRIMARY KEY,
    title         TEXT NOT NULL,
    genre         TEXT NOT NULL,
    cefr_level    TEXT NOT NULL,
    reading_level DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS article_reads (
    read_id       TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    article_id    TEXT NOT NULL,
    genre         TEXT NOT NULL,
    cefr_level    TEXT NOT NULL,
    mcq_completed BOOLEAN NOT NULL DEFAULT FALSE,
    saq_completed BOOLEAN NOT NULL DEFAULT FALSE,
    laq_completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_article_reads_user ON article_reads (user_id, created_at);

CREATE TABLE IF NOT EXISTS xp_logs (
    entry_id      TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    xp_earned     INTEGER NOT NULL,
    activity_id   TEXT,
    activity_type TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_xp_logs_user ON xp_logs (user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_xp_logs_window ON xp_logs (created_at);

CREATE TABLE IF NOT EXISTS activity_events (
    event_id         TEXT PRIMARY KEY,
    user_id          TEXT NOT NULL,
    activity_type    TEXT NOT NULL,
    duration_seconds INTEGER,
    school_id        TEXT,
    classroom_id     TEXT,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_activity_events_window ON activity_events (created_at);

CREATE TABLE IF NOT EXISTS lesson_progress (
    progress_id   TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    article_id    TEXT NOT NULL,
    article_level DOUBLE PRECISION NOT NULL,
    user_level    DOUBLE PRECISION NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_lesson_progress_window ON lesson_progress (created_at);

CREATE TABLE IF NOT EXISTS assignments (
    assignment_id TEXT PRIMARY KEY,
    classroom_id  TEXT NOT NULL,
    title         TEXT NOT NULL,
    due_date      TIMESTAMPTZ NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS assignment_statuses (
    assignment_id TEXT NOT NULL,
    user_id       TEXT NOT NULL,
    status        TEXT NOT NULL,
    score         DOUBLE PRECISION,
    PRIMARY KEY (assignment_id, user_id)
);
`
