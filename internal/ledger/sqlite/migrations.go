package sqlite

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS contractor (
		slug TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS alias (
		slug TEXT PRIMARY KEY,
		contractor TEXT NOT NULL REFERENCES contractor(slug) ON DELETE RESTRICT,
		rate INTEGER NOT NULL CHECK (rate >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS timelog (
		hash TEXT PRIMARY KEY,
		alias TEXT NOT NULL REFERENCES alias(slug) ON DELETE RESTRICT,
		minutes INTEGER NOT NULL CHECK (minutes > 0),
		date TEXT NOT NULL,
		message TEXT,
		ticket TEXT,
		timestamp TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alias_contractor ON alias (contractor)`,
	`CREATE INDEX IF NOT EXISTS idx_timelog_alias ON timelog (alias)`,
	`CREATE INDEX IF NOT EXISTS idx_timelog_date ON timelog (date)`,
}
