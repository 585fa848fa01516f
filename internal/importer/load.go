// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package importer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/postgres"
)

// Importer copies a parsed [Dataset] into PostgreSQL.
type Importer struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New creates an Importer.
func New(pool *pgxpool.Pool, logger *slog.Logger) *Importer {
	return &Importer{pool: pool, logger: logger}
}

/*
Run parses fsys and loads every table inside one transaction.

Description: Rows are streamed with COPY. Identity sequences are advanced
past the imported ids so later inserts do not collide. Any failure rolls
the whole import back.

Returns:
  - map[string]int64: Rows copied per file
  - error: Parse or database failure
*/
func (importer *Importer) Run(ctx context.Context, fsys fs.FS) (map[string]int64, error) {
	dataset, err := Parse(fsys)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(dataset.Tables))
	err = postgres.InTx(ctx, importer.pool, func(tx pgx.Tx) error {
		for _, table := range dataset.Tables {
			copied, err := tx.CopyFrom(ctx, table.Name, table.Columns, pgx.CopyFromRows(table.Rows))
			if err != nil {
				return fmt.Errorf("importer: copy %s into %s: %w", table.File, table.Name.Sanitize(), err)
			}
			counts[table.File] = copied

			importer.logger.Info("import_table_loaded",
				slog.String("file", table.File),
				slog.Int64("rows", copied),
			)
		}

		for _, table := range dataset.Tables {
			if !table.HasIdentity {
				continue
			}
			if err := advanceSequence(ctx, tx, table.Name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return counts, nil
}

// advanceSequence moves the id sequence of table to MAX(id)+1.
func advanceSequence(ctx context.Context, tx pgx.Tx, table pgx.Identifier) error {
	query := fmt.Sprintf(`
		SELECT setval(pg_get_serial_sequence($1, 'id'), COALESCE(MAX(id), 0) + 1, false)
		FROM %s`, table.Sanitize())

	if _, err := tx.Exec(ctx, query, table.Sanitize()); err != nil {
		return fmt.Errorf("importer: advance sequence of %s: %w", table.Sanitize(), err)
	}
	return nil
}
