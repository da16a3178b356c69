package store

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS talent_accounts (
		id                  UUID PRIMARY KEY,
		email               TEXT NOT NULL,
		password_hash       TEXT NOT NULL,
		role                TEXT NOT NULL DEFAULT 'TALENT',
		is_active           BOOLEAN NOT NULL DEFAULT TRUE,
		must_reset_password BOOLEAN NOT NULL DEFAULT FALSE,
		legacy_id           TEXT UNIQUE,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS talent_accounts_email_key ON talent_accounts (lower(email))`,
	`CREATE TABLE IF NOT EXISTS talent_profiles (
		id                     UUID PRIMARY KEY,
		user_id                UUID NOT NULL UNIQUE REFERENCES talent_accounts (id) ON DELETE CASCADE,
		legacy_id              TEXT UNIQUE,
		first_name             TEXT NOT NULL,
		last_name              TEXT NOT NULL,
		gender                 TEXT NOT NULL,
		age_range_min          INTEGER NOT NULL,
		age_range_max          INTEGER NOT NULL,
		date_of_birth          DATE,
		birth_place            TEXT,
		height                 INTEGER,
		physique               TEXT,
		ethnic_appearance      TEXT,
		hair_color             TEXT,
		hair_length            TEXT,
		beard_type             TEXT,
		eye_color              TEXT,
		has_tattoos            BOOLEAN NOT NULL DEFAULT FALSE,
		tattoo_description     TEXT,
		has_scars              BOOLEAN NOT NULL DEFAULT FALSE,
		scar_description       TEXT,
		languages              JSONB NOT NULL DEFAULT '[]',
		accents                JSONB NOT NULL DEFAULT '[]',
		athletic_skills        JSONB NOT NULL DEFAULT '[]',
		instruments            JSONB NOT NULL DEFAULT '[]',
		performance_skills     JSONB NOT NULL DEFAULT '[]',
		dance_styles           JSONB NOT NULL DEFAULT '[]',
		photos                 JSONB NOT NULL DEFAULT '[]',
		primary_photo          TEXT,
		video_urls             JSONB NOT NULL DEFAULT '[]',
		showreel_url           TEXT,
		presentation_video_url TEXT,
		has_showreel           BOOLEAN NOT NULL DEFAULT FALSE,
		is_available           BOOLEAN NOT NULL DEFAULT TRUE,
		availability_types     JSONB NOT NULL DEFAULT '[]',
		daily_rate             INTEGER,
		rate_negotiable        BOOLEAN NOT NULL DEFAULT FALSE,
		phone                  TEXT,
		imdb_url               TEXT,
		portfolio              JSONB NOT NULL DEFAULT '[]',
		social_media           JSONB NOT NULL DEFAULT '{}',
		bio                    TEXT,
		location               TEXT,
		validation_status      TEXT NOT NULL DEFAULT 'PENDING',
		validated_at           TIMESTAMPTZ,
		is_public              BOOLEAN NOT NULL DEFAULT FALSE,
		subscription_status    TEXT NOT NULL DEFAULT 'NONE',
		created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS talent_accounts (
		id                  TEXT PRIMARY KEY,
		email               TEXT NOT NULL,
		password_hash       TEXT NOT NULL,
		role                TEXT NOT NULL DEFAULT 'TALENT',
		is_active           INTEGER NOT NULL DEFAULT 1,
		must_reset_password INTEGER NOT NULL DEFAULT 0,
		legacy_id           TEXT UNIQUE,
		created_at          TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS talent_accounts_email_key ON talent_accounts (lower(email))`,
	`CREATE TABLE IF NOT EXISTS talent_profiles (
		id                     TEXT PRIMARY KEY,
		user_id                TEXT NOT NULL UNIQUE REFERENCES talent_accounts (id) ON DELETE CASCADE,
		legacy_id              TEXT UNIQUE,
		first_name             TEXT NOT NULL,
		last_name              TEXT NOT NULL,
		gender                 TEXT NOT NULL,
		age_range_min          INTEGER NOT NULL,
		age_range_max          INTEGER NOT NULL,
		date_of_birth          TEXT,
		birth_place            TEXT,
		height                 INTEGER,
		physique               TEXT,
		ethnic_appearance      TEXT,
		hair_color             TEXT,
		hair_length            TEXT,
		beard_type             TEXT,
		eye_color              TEXT,
		has_tattoos            INTEGER NOT NULL DEFAULT 0,
		tattoo_description     TEXT,
		has_scars              INTEGER NOT NULL DEFAULT 0,
		scar_description       TEXT,
		languages              TEXT NOT NULL DEFAULT '[]',
		accents                TEXT NOT NULL DEFAULT '[]',
		athletic_skills        TEXT NOT NULL DEFAULT '[]',
		instruments            TEXT NOT NULL DEFAULT '[]',
		performance_skills     TEXT NOT NULL DEFAULT '[]',
		dance_styles           TEXT NOT NULL DEFAULT '[]',
		photos                 TEXT NOT NULL DEFAULT '[]',
		primary_photo          TEXT,
		video_urls             TEXT NOT NULL DEFAULT '[]',
		showreel_url           TEXT,
		presentation_video_url TEXT,
		has_showreel           INTEGER NOT NULL DEFAULT 0,
		is_available           INTEGER NOT NULL DEFAULT 1,
		availability_types     TEXT NOT NULL DEFAULT '[]',
		daily_rate             INTEGER,
		rate_negotiable        INTEGER NOT NULL DEFAULT 0,
		phone                  TEXT,
		imdb_url               TEXT,
		portfolio              TEXT NOT NULL DEFAULT '[]',
		social_media           TEXT NOT NULL DEFAULT '{}',
		bio                    TEXT,
		location               TEXT,
		validation_status      TEXT NOT NULL DEFAULT 'PENDING',
		validated_at           TEXT,
		is_public              INTEGER NOT NULL DEFAULT 0,
		subscription_status    TEXT NOT NULL DEFAULT 'NONE',
		created_at             TEXT NOT NULL
	)`,
}
