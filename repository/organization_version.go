package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ccenter-uz/1009-organization-service-sub000/dal"
	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pendingVersionIndex backs the one-pending-version-per-organization rule.
const pendingVersionIndex = "uq_organization_versions_pending"

type organizationVersionRepository struct {
	db     dal.DatabaseClientInterface
	logger logger.Logger
}

// NewOrganizationVersionRepository creates the repository for staged
// organization changes.
func NewOrganizationVersionRepository(db dal.DatabaseClientInterface, log logger.Logger) OrganizationVersionRepositoryInterface {
	return &organizationVersionRepository{db: db, logger: log}
}

func (r *organizationVersionRepository) Create(ctx context.Context, version *models.OrganizationVersion) (*models.OrganizationVersion, error) {
	if version.ID == "" {
		version.ID = utils.GenerateUUID()
	}

	snapshot, err := json.Marshal(version.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	err = r.db.DB().QueryRow(ctx,
		`INSERT INTO organization_versions (id, organization_id, method, status, snapshot)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		version.ID, nullableID(version.OrganizationID), version.Method, version.Status, snapshot,
	).Scan(&version.CreatedAt, &version.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == pendingVersionIndex {
				return nil, models.ErrVersionPending
			}
			return nil, models.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to insert organization version: %w", err)
	}

	r.logger.WithField("version_id", version.ID).
		Infof("staged %s version for organization %s", version.Method, version.OrganizationID)
	return version, nil
}

func (r *organizationVersionRepository) FindAll(ctx context.Context, filter models.OrganizationVersionFilter, take, skip int) ([]*models.OrganizationVersion, int, error) {
	var where []string
	var args []any

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		where = append(where, "v.status = "+next(filter.Status))
	}
	if filter.Method != "" {
		where = append(where, "v.method = "+next(filter.Method))
	}
	if filter.OrganizationID != "" {
		where = append(where, "v.organization_id = "+next(filter.OrganizationID))
	}
	if filter.Name != "" {
		where = append(where, "v.snapshot->>'name' ILIKE '%' || "+next(filter.Name)+" || '%'")
	}
	if filter.INN != "" {
		where = append(where, "v.snapshot->>'inn' ILIKE '%' || "+next(filter.INN)+" || '%'")
	}
	if filter.RegionID != "" {
		where = append(where, "v.snapshot->>'region_id' = "+next(filter.RegionID))
	}
	if filter.CityID != "" {
		where = append(where, "v.snapshot->>'city_id' = "+next(filter.CityID))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var count int
	if err := r.db.DB().QueryRow(ctx,
		"SELECT count(*) FROM organization_versions v"+whereSQL, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count organization versions: %w", err)
	}
	if count == 0 {
		return []*models.OrganizationVersion{}, 0, nil
	}

	listSQL := versionSelect + whereSQL + " ORDER BY v.created_at DESC"
	if take > 0 {
		listSQL += fmt.Sprintf(" LIMIT %d OFFSET %d", take, skip)
	}

	rows, err := r.db.DB().Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organization versions: %w", err)
	}
	defer rows.Close()

	versions := make([]*models.OrganizationVersion, 0, take)
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, 0, err
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed reading version rows: %w", err)
	}
	return versions, count, nil
}

const versionSelect = `SELECT v.id, v.organization_id, v.method, v.status, v.snapshot, v.created_at, v.updated_at
FROM organization_versions v`

func scanVersion(row pgx.Row) (*models.OrganizationVersion, error) {
	var (
		v        models.OrganizationVersion
		orgID    *string
		snapshot []byte
	)
	if err := row.Scan(&v.ID, &orgID, &v.Method, &v.Status, &snapshot, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	if orgID != nil {
		v.OrganizationID = *orgID
	}
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &v.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
	}
	return &v, nil
}

func (r *organizationVersionRepository) FindOne(ctx context.Context, id string) (*models.OrganizationVersion, error) {
	v, err := scanVersion(r.db.DB().QueryRow(ctx, versionSelect+" WHERE v.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *organizationVersionRepository) LatestPending(ctx context.Context, organizationID string) (*models.OrganizationVersion, error) {
	v, err := scanVersion(r.db.DB().QueryRow(ctx,
		versionSelect+" WHERE v.organization_id = $1 AND v.status = $2 ORDER BY v.created_at DESC LIMIT 1",
		organizationID, models.OrganizationStatusCheck))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *organizationVersionRepository) SetStatus(ctx context.Context, id string, status models.OrganizationStatus) error {
	tag, err := r.db.DB().Exec(ctx,
		"UPDATE organization_versions SET status = $2, updated_at = now() WHERE id = $1", id, status)
	if err != nil {
		return fmt.Errorf("failed to set version status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
