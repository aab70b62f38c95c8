package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS farm_plans (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS crop_plans (
	id            TEXT PRIMARY KEY,
	farm_plan_id  TEXT NOT NULL REFERENCES farm_plans(id) ON DELETE CASCADE,
	crop_name     TEXT NOT NULL,
	hectares      REAL NOT NULL DEFAULT 1,
	planting_date DATETIME,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
	id                 TEXT PRIMARY KEY,
	farm_plan_id       TEXT NOT NULL REFERENCES farm_plans(id) ON DELETE CASCADE,
	crop_plan_id       TEXT REFERENCES crop_plans(id) ON DELETE SET NULL,
	title              TEXT NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL DEFAULT 'pending'
		CHECK(status IN ('pending', 'in-progress', 'completed')),
	priority           TEXT NOT NULL DEFAULT 'medium'
		CHECK(priority IN ('low', 'medium', 'high', 'urgent')),
	category           TEXT NOT NULL DEFAULT '',
	due_date           DATETIME,
	assigned_to        TEXT,
	assigned_by        TEXT,
	created_by         TEXT,
	estimated_duration REAL,
	actual_duration    REAL,
	requires_approval  INTEGER NOT NULL DEFAULT 0 CHECK(requires_approval IN (0, 1)),
	notes              TEXT NOT NULL DEFAULT '',
	completed_at       DATETIME,
	created_at         DATETIME NOT NULL,
	updated_at         DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS task_dependencies (
	id                 TEXT PRIMARY KEY,
	task_id            TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	depends_on_task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	dependency_type    TEXT NOT NULL DEFAULT 'finish-to-start'
		CHECK(dependency_type IN
			('finish-to-start', 'start-to-start', 'finish-to-finish', 'start-to-finish')),
	lag_days           INTEGER NOT NULL DEFAULT 0,
	created_at         DATETIME NOT NULL,
	UNIQUE(task_id, depends_on_task_id)
);

CREATE INDEX IF NOT EXISTS idx_tasks_farm_plan ON tasks(farm_plan_id);
CREATE INDEX IF NOT EXISTS idx_tasks_crop_plan ON tasks(crop_plan_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_priority ON tasks(priority);
CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);
CREATE INDEX IF NOT EXISTS idx_deps_task ON task_dependencies(task_id);
CREATE INDEX IF NOT EXISTS idx_deps_depends_on ON task_dependencies(depends_on_task_id);
CREATE INDEX IF NOT EXISTS idx_crop_plans_farm_plan ON crop_plans(farm_plan_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS change_log (
	id          TEXT PRIMARY KEY,
	target_type TEXT NOT NULL,
	target_id   TEXT NOT NULL,
	action      TEXT NOT NULL,
	actor       TEXT,
	description TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	task_id    TEXT NOT NULL,
	recipient  TEXT NOT NULL,
	message    TEXT NOT NULL,
	read       INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_change_log_target ON change_log(target_type, target_id);
CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read);
CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
