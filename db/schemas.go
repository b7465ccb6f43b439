package db

var schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id BIGSERIAL PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	name VARCHAR(255) NOT NULL DEFAULT '',
	password_hash VARCHAR(255) NOT NULL DEFAULT '',
	credit NUMERIC(12, 2) NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	is_artist BOOLEAN NOT NULL DEFAULT FALSE,
	is_promoter BOOLEAN NOT NULL DEFAULT FALSE,
	is_verified BOOLEAN NOT NULL DEFAULT FALSE,
	processor_customer_id VARCHAR(255) UNIQUE,
	processor_account_id VARCHAR(255) UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS account_secrets (
	account_id BIGINT PRIMARY KEY REFERENCES accounts (id),
	otp VARCHAR(32) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS venues (
	id BIGSERIAL PRIMARY KEY,
	slug VARCHAR(255) NOT NULL UNIQUE,
	name VARCHAR(255) NOT NULL,
	address TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS events (
	id BIGSERIAL PRIMARY KEY,
	slug VARCHAR(255) NOT NULL UNIQUE,
	name VARCHAR(255) NOT NULL,
	promoter_id BIGINT NOT NULL REFERENCES accounts (id),
	venue_id BIGINT NOT NULL REFERENCES venues (id),
	start_time TIMESTAMPTZ NOT NULL,
	end_time TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS tallies (
	id BIGSERIAL PRIMARY KEY,
	slug VARCHAR(255) NOT NULL UNIQUE,
	artist_id BIGINT NOT NULL REFERENCES accounts (id),
	event_id BIGINT NOT NULL REFERENCES events (id),
	UNIQUE (artist_id, event_id)
);

CREATE TABLE IF NOT EXISTS ticket_types (
	id BIGSERIAL PRIMARY KEY,
	event_id BIGINT NOT NULL REFERENCES events (id),
	slug VARCHAR(255) NOT NULL UNIQUE,
	name VARCHAR(255) NOT NULL,
	price NUMERIC(12, 2) NOT NULL,
	tickets_remaining INT
);

CREATE TABLE IF NOT EXISTS tickets (
	id BIGSERIAL PRIMARY KEY,
	ticket_type_id BIGINT NOT NULL REFERENCES ticket_types (id),
	owner_id BIGINT REFERENCES accounts (id),
	vote_id BIGINT REFERENCES tallies (id),
	code VARCHAR(16) NOT NULL DEFAULT '' UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS processed_payment_events (
	processor_event_id VARCHAR(255) PRIMARY KEY,
	processed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS read_model_ops_settlements (
	charge_id VARCHAR(255) PRIMARY KEY,
	payload JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS event_log (
	event_id UUID PRIMARY KEY,
	published_at TIMESTAMPTZ NOT NULL,
	event_name VARCHAR(255) NOT NULL,
	event_payload JSONB NOT NULL
);
`
