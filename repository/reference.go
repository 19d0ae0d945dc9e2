package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ccenter-uz/1009-organization-service-sub000/dal"
	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type referenceRepository struct {
	db     dal.DatabaseClientInterface
	logger logger.Logger
}

// NewReferenceRepository creates the registry-driven repository that serves
// every reference entity.
func NewReferenceRepository(db dal.DatabaseClientInterface, log logger.Logger) ReferenceRepositoryInterface {
	return &referenceRepository{db: db, logger: log}
}

func entityConfig(kind models.EntityKind) (models.EntityConfig, error) {
	cfg, ok := models.Entities[kind]
	if !ok {
		return models.EntityConfig{}, fmt.Errorf("unknown entity kind %q", kind)
	}
	return cfg, nil
}

// fkColumn is the foreign-key column translation tables use to point at
// their base row.
func fkColumn(kind models.EntityKind) string {
	return string(kind) + "_id"
}

func mapDBError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return models.ErrAlreadyExists
	}
	return err
}

func (r *referenceRepository) Create(ctx context.Context, kind models.EntityKind, rec *models.ReferenceRecord) (*models.ReferenceRecord, error) {
	cfg, err := entityConfig(kind)
	if err != nil {
		return nil, err
	}

	if rec.ID == "" {
		rec.ID = utils.GenerateUUID()
	}

	err = r.db.WithTx(ctx, func(tx pgx.Tx) error {
		cols := []string{"id", "status"}
		args := []any{rec.ID, models.EntityStatusActive}
		for _, p := range cfg.Parents {
			if id := rec.ParentIDs[p.Column]; id != "" {
				cols = append(cols, p.Column)
				args = append(args, id)
			}
		}

		placeholders := make([]string, len(cols))
		for i := range cols {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		}
		insertSQL := fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s) RETURNING created_at, updated_at",
			cfg.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
		)
		if err := tx.QueryRow(ctx, insertSQL, args...).Scan(&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return fmt.Errorf("failed to insert %s: %w", kind, mapDBError(err))
		}

		if err := upsertTranslations(ctx, tx, cfg.TranslationTable, fkColumn(kind), rec.ID, rec.Names); err != nil {
			return err
		}
		if cfg.HasHistory() {
			if err := upsertTranslations(ctx, tx, cfg.OldNameTable, fkColumn(kind), rec.ID, rec.OldNames); err != nil {
				return err
			}
			if err := upsertTranslations(ctx, tx, cfg.NewNameTable, fkColumn(kind), rec.ID, rec.NewNames); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rec.Status = models.EntityStatusActive
	r.logger.WithField("kind", kind).Infof("created %s %s", kind, rec.ID)
	return rec, nil
}

// upsertTranslations writes translation rows, replacing only the languages
// present in rows. The search vector is maintained inline so new names are
// searchable without waiting for the background refresh.
func upsertTranslations(ctx context.Context, q dal.Querier, table, fkCol, id string, rows []models.Translation) error {
	for _, t := range rows {
		sql := fmt.Sprintf(
			`INSERT INTO %s (%s, language_code, name, search_vector)
			 VALUES ($1, $2, $3, to_tsvector('simple', $3))
			 ON CONFLICT (%s, language_code)
			 DO UPDATE SET name = EXCLUDED.name, search_vector = EXCLUDED.search_vector`,
			table, fkCol, fkCol,
		)
		if _, err := q.Exec(ctx, sql, id, t.LanguageCode, t.Name); err != nil {
			return fmt.Errorf("failed to upsert translation into %s: %w", table, mapDBError(err))
		}
	}
	return nil
}

func (r *referenceRepository) FindAll(ctx context.Context, kind models.EntityKind, filter models.ListFilter, take, skip int) ([]*models.ReferenceRecord, int, error) {
	cfg, err := entityConfig(kind)
	if err != nil {
		return nil, 0, err
	}

	status := filter.Status
	if status == "" {
		status = models.EntityStatusActive
	}

	where := []string{"e.status = $1"}
	args := []any{status}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s t WHERE t.%s = e.id AND t.name ILIKE '%%' || $%d || '%%')",
			cfg.TranslationTable, fkColumn(kind), len(args)+1,
		))
		args = append(args, filter.Search)
	}
	whereSQL := strings.Join(where, " AND ")

	var count int
	countSQL := fmt.Sprintf("SELECT count(*) FROM %s e WHERE %s", cfg.Table, whereSQL)
	if err := r.db.DB().QueryRow(ctx, countSQL, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", kind, err)
	}
	if count == 0 {
		return []*models.ReferenceRecord{}, 0, nil
	}

	listSQL := fmt.Sprintf(
		"SELECT %s FROM %s e WHERE %s ORDER BY e.created_at DESC",
		selectColumns(cfg), cfg.Table, whereSQL,
	)
	if take > 0 {
		listSQL += fmt.Sprintf(" LIMIT %d OFFSET %d", take, skip)
	}

	rows, err := r.db.DB().Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	defer rows.Close()

	records := make([]*models.ReferenceRecord, 0, take)
	for rows.Next() {
		rec, err := scanReference(rows, cfg)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed reading %s rows: %w", kind, err)
	}

	if err := r.attachTranslations(ctx, cfg, kind, records); err != nil {
		return nil, 0, err
	}
	return records, count, nil
}

func (r *referenceRepository) FindOne(ctx context.Context, kind models.EntityKind, id string) (*models.ReferenceRecord, error) {
	cfg, err := entityConfig(kind)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf(
		"SELECT %s FROM %s e WHERE e.id = $1 AND e.status = $2",
		selectColumns(cfg), cfg.Table,
	)
	row := r.db.DB().QueryRow(ctx, sql, id, models.EntityStatusActive)
	rec, err := scanReference(row, cfg)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	if err := r.attachTranslations(ctx, cfg, kind, []*models.ReferenceRecord{rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *referenceRepository) Update(ctx context.Context, kind models.EntityKind, req *models.UpdateReferenceRequest) (*models.ReferenceRecord, error) {
	cfg, err := entityConfig(kind)
	if err != nil {
		return nil, err
	}

	err = r.db.WithTx(ctx, func(tx pgx.Tx) error {
		sets := []string{"updated_at = now()"}
		args := []any{req.ID}
		for _, p := range cfg.Parents {
			if id, ok := req.ParentIDs[p.Column]; ok && id != "" {
				args = append(args, id)
				sets = append(sets, fmt.Sprintf("%s = $%d", p.Column, len(args)))
			}
		}

		updateSQL := fmt.Sprintf(
			"UPDATE %s SET %s WHERE id = $1",
			cfg.Table, strings.Join(sets, ", "),
		)
		tag, err := tx.Exec(ctx, updateSQL, args...)
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", kind, mapDBError(err))
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		if err := upsertTranslations(ctx, tx, cfg.TranslationTable, fkColumn(kind), req.ID, req.Name); err != nil {
			return err
		}
		if cfg.HasHistory() {
			if err := upsertTranslations(ctx, tx, cfg.OldNameTable, fkColumn(kind), req.ID, req.OldName); err != nil {
				return err
			}
			if err := upsertTranslations(ctx, tx, cfg.NewNameTable, fkColumn(kind), req.ID, req.NewName); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindOne(ctx, kind, req.ID)
}

func (r *referenceRepository) Remove(ctx context.Context, kind models.EntityKind, id string, hard bool) error {
	cfg, err := entityConfig(kind)
	if err != nil {
		return err
	}

	var tag pgconn.CommandTag
	if hard {
		tag, err = r.db.DB().Exec(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE id = $1", cfg.Table), id)
	} else {
		tag, err = r.db.DB().Exec(ctx,
			fmt.Sprintf("UPDATE %s SET status = $2, updated_at = now() WHERE id = $1 AND status = $3", cfg.Table),
			id, models.EntityStatusInactive, models.EntityStatusActive)
	}
	if err != nil {
		return fmt.Errorf("failed to remove %s %s: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	r.logger.WithField("kind", kind).Infof("removed %s %s (hard=%t)", kind, id, hard)
	return nil
}

func (r *referenceRepository) Restore(ctx context.Context, kind models.EntityKind, id string) error {
	cfg, err := entityConfig(kind)
	if err != nil {
		return err
	}

	tag, err := r.db.DB().Exec(ctx,
		fmt.Sprintf("UPDATE %s SET status = $2, updated_at = now() WHERE id = $1 AND status = $3", cfg.Table),
		id, models.EntityStatusActive, models.EntityStatusInactive)
	if err != nil {
		return fmt.Errorf("failed to restore %s %s: %w", kind, id, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var status models.EntityStatus
	err = r.db.DB().QueryRow(ctx,
		fmt.Sprintf("SELECT status FROM %s WHERE id = $1", cfg.Table), id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to restore %s %s: %w", kind, id, err)
	}
	return models.ErrRestoreActive
}

// selectColumns builds the base-row projection: fixed columns first, then
// the entity's parent foreign keys in registry order.
func selectColumns(cfg models.EntityConfig) string {
	cols := []string{"e.id", "e.status", "e.created_at", "e.updated_at"}
	for _, p := range cfg.Parents {
		cols = append(cols, "e."+p.Column)
	}
	return strings.Join(cols, ", ")
}

func scanReference(row pgx.Row, cfg models.EntityConfig) (*models.ReferenceRecord, error) {
	var (
		rec     models.ReferenceRecord
		created time.Time
		updated time.Time
		parents = make([]*string, len(cfg.Parents))
	)

	dest := []any{&rec.ID, &rec.Status, &created, &updated}
	for i := range parents {
		dest = append(dest, &parents[i])
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	rec.CreatedAt = created
	rec.UpdatedAt = updated
	rec.ParentIDs = make(map[string]string, len(cfg.Parents))
	for i, p := range cfg.Parents {
		if parents[i] != nil {
			rec.ParentIDs[p.Column] = *parents[i]
		}
	}
	return &rec, nil
}

// attachTranslations loads name rows for a batch of records in one query per
// translation table.
func (r *referenceRepository) attachTranslations(ctx context.Context, cfg models.EntityConfig, kind models.EntityKind, records []*models.ReferenceRecord) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]string, len(records))
	byID := make(map[string]*models.ReferenceRecord, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
		byID[rec.ID] = rec
	}

	assign := func(table string, set func(rec *models.ReferenceRecord, t models.Translation)) error {
		sql := fmt.Sprintf(
			"SELECT %s, language_code, name FROM %s WHERE %s = ANY($1::uuid[])",
			fkColumn(kind), table, fkColumn(kind),
		)
		rows, err := r.db.DB().Query(ctx, sql, ids)
		if err != nil {
			return fmt.Errorf("failed to load translations from %s: %w", table, err)
		}
		defer rows.Close()

		for rows.Next() {
			var id string
			var t models.Translation
			if err := rows.Scan(&id, &t.LanguageCode, &t.Name); err != nil {
				return err
			}
			if rec, ok := byID[id]; ok {
				set(rec, t)
			}
		}
		return rows.Err()
	}

	if err := assign(cfg.TranslationTable, func(rec *models.ReferenceRecord, t models.Translation) {
		rec.Names = append(rec.Names, t)
	}); err != nil {
		return err
	}
	if !cfg.HasHistory() {
		return nil
	}
	if err := assign(cfg.OldNameTable, func(rec *models.ReferenceRecord, t models.Translation) {
		rec.OldNames = append(rec.OldNames, t)
	}); err != nil {
		return err
	}
	return assign(cfg.NewNameTable, func(rec *models.ReferenceRecord, t models.Translation) {
		rec.NewNames = append(rec.NewNames, t)
	})
}
