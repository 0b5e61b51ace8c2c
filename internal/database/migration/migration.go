package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shopapi/internal/applog"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name          TEXT        NOT NULL,
  email         TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  is_admin      BOOLEAN     NOT NULL DEFAULT false,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_products",
		SQL: `CREATE TABLE IF NOT EXISTS products (
  id             UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id        UUID          NOT NULL REFERENCES users (id),
  name           TEXT          NOT NULL,
  image          TEXT          NOT NULL DEFAULT '',
  brand          TEXT          NOT NULL DEFAULT '',
  category       TEXT          NOT NULL DEFAULT '',
  description    TEXT          NOT NULL DEFAULT '',
  price          NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
  count_in_stock INTEGER       NOT NULL DEFAULT 0 CHECK (count_in_stock >= 0),
  rating         DOUBLE PRECISION NOT NULL DEFAULT 0,
  num_reviews    INTEGER       NOT NULL DEFAULT 0,
  created_at     TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_reviews",
		SQL: `CREATE TABLE IF NOT EXISTS reviews (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  product_id UUID        NOT NULL REFERENCES products (id) ON DELETE CASCADE,
  user_id    UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  name       TEXT        NOT NULL,
  rating     SMALLINT    NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment    TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (product_id, user_id)
);`,
	},
	{
		Name: "create_table_orders",
		SQL: `CREATE TABLE IF NOT EXISTS orders (
  id               UUID          PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id          UUID          NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  shipping_address JSONB         NOT NULL,
  payment_method   TEXT          NOT NULL,
  payment_result   JSONB,
  items_price      NUMERIC(12,2) NOT NULL,
  tax_price        NUMERIC(12,2) NOT NULL,
  shipping_price   NUMERIC(12,2) NOT NULL,
  total_price      NUMERIC(12,2) NOT NULL,
  status           TEXT          NOT NULL DEFAULT 'pending',
  is_paid          BOOLEAN       NOT NULL DEFAULT false,
  paid_at          TIMESTAMPTZ,
  is_delivered     BOOLEAN       NOT NULL DEFAULT false,
  delivered_at     TIMESTAMPTZ,
  created_at       TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_order_items",
		SQL: `CREATE TABLE IF NOT EXISTS order_items (
  order_id   UUID          NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
  position   INTEGER       NOT NULL,
  product_id UUID          NOT NULL,
  name       TEXT          NOT NULL,
  image      TEXT          NOT NULL DEFAULT '',
  quantity   INTEGER       NOT NULL CHECK (quantity > 0),
  price      NUMERIC(12,2) NOT NULL,
  PRIMARY KEY (order_id, position)
);`,
	},
	{
		Name: "create_index_products_name",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_products_name ON products (lower(name));`,
	},
	{
		Name: "create_index_products_rating",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_products_rating ON products (rating DESC);`,
	},
	{
		Name: "create_index_orders_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders (user_id);`,
	},
}

// sentinelQuery checks for the table created by the last step.
const sentinelQuery = "SELECT to_regclass('public.order_items') IS NOT NULL"

// EnsureMigrated checks if the schema exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	applog.JSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	err := db.QueryRowContext(ctx, sentinelQuery).Scan(&exists)
	if err != nil {
		applog.JSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		applog.JSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	applog.JSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			applog.JSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		applog.JSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	applog.JSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}
