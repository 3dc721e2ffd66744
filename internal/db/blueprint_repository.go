package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/areasim/internal/blueprint"
	"github.com/udisondev/areasim/internal/model"
)

// BlueprintRepository implements blueprint.Repository for PostgreSQL.
// Bodies are stored in the same YAML form as blueprint files.
type BlueprintRepository struct {
	pool *pgxpool.Pool
}

// NewBlueprintRepository creates a new PostgreSQL blueprint repository.
func NewBlueprintRepository(pool *pgxpool.Pool) *BlueprintRepository {
	return &BlueprintRepository{pool: pool}
}

// Lookup loads one blueprint. A missing row yields a wrapped blueprint.ErrNotFound.
func (r *BlueprintRepository) Lookup(ctx context.Context, kind model.ObjectType, resref string) (*blueprint.Blueprint, error) {
	var body string
	err := r.pool.QueryRow(ctx,
		`SELECT body FROM blueprints WHERE kind = $1 AND resref = $2`,
		kind.String(), resref,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s %q: %w", kind, resref, blueprint.ErrNotFound)
		}
		return nil, fmt.Errorf("querying %s blueprint %q: %w", kind, resref, err)
	}

	var bp blueprint.Blueprint
	if err := yaml.Unmarshal([]byte(body), &bp); err != nil {
		return nil, fmt.Errorf("decoding %s blueprint %q: %w", kind, resref, err)
	}
	bp.Kind = kind
	return &bp, nil
}

const upsertBlueprint = `
	INSERT INTO blueprints (kind, resref, name, tag, body, updated_at)
	VALUES ($1, $2, $3, $4, $5, now())
	ON CONFLICT (kind, resref) DO UPDATE
	SET name = EXCLUDED.name, tag = EXCLUDED.tag, body = EXCLUDED.body, updated_at = now()`

// Save inserts or replaces a blueprint.
func (r *BlueprintRepository) Save(ctx context.Context, bp *blueprint.Blueprint) error {
	args, err := saveArgs(bp)
	if err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, upsertBlueprint, args...); err != nil {
		return fmt.Errorf("saving %s blueprint %q: %w", bp.Kind, bp.ResRef, err)
	}
	return nil
}

// SaveAll upserts blueprints in a single transaction.
func (r *BlueprintRepository) SaveAll(ctx context.Context, bps []*blueprint.Blueprint) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback blueprint import", "error", err)
		}
	}()

	batch := &pgx.Batch{}
	for _, bp := range bps {
		args, err := saveArgs(bp)
		if err != nil {
			return err
		}
		batch.Queue(upsertBlueprint, args...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("saving blueprints: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit blueprint import: %w", err)
	}
	return nil
}

// Delete removes a blueprint. Deleting a missing row is not an error.
func (r *BlueprintRepository) Delete(ctx context.Context, kind model.ObjectType, resref string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM blueprints WHERE kind = $1 AND resref = $2`,
		kind.String(), resref,
	)
	if err != nil {
		return fmt.Errorf("deleting %s blueprint %q: %w", kind, resref, err)
	}
	return nil
}

// Count returns the number of stored blueprints.
func (r *BlueprintRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM blueprints`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting blueprints: %w", err)
	}
	return n, nil
}

func saveArgs(bp *blueprint.Blueprint) ([]any, error) {
	if bp.ResRef == "" {
		return nil, fmt.Errorf("saving %s blueprint: empty resref", bp.Kind)
	}
	if bp.Kind == model.ObjectTypeInvalid {
		return nil, fmt.Errorf("saving blueprint %q: invalid kind", bp.ResRef)
	}
	body, err := yaml.Marshal(bp)
	if err != nil {
		return nil, fmt.Errorf("encoding %s blueprint %q: %w", bp.Kind, bp.ResRef, err)
	}
	return []any{bp.Kind.String(), bp.ResRef, bp.Name, bp.Tag, string(body)}, nil
}
