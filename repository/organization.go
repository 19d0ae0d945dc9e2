package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ccenter-uz/1009-organization-service-sub000/dal"
	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"

	"github.com/jackc/pgx/v5"
)

type organizationRepository struct {
	db     dal.DatabaseClientInterface
	logger logger.Logger
}

// NewOrganizationRepository creates the repository for the live organization
// aggregate.
func NewOrganizationRepository(db dal.DatabaseClientInterface, log logger.Logger) OrganizationRepositoryInterface {
	return &organizationRepository{db: db, logger: log}
}

// refColumn ties one organization foreign-key column to the reference kind
// it points at. geo marks address-hierarchy columns included in full-text
// search.
type refColumn struct {
	kind   models.EntityKind
	column string
	geo    bool
}

var orgRefColumns = []refColumn{
	{models.EntityRegion, "region_id", true},
	{models.EntityCity, "city_id", true},
	{models.EntityDistrict, "district_id", true},
	{models.EntityVillage, "village_id", true},
	{models.EntityAvenue, "avenue_id", true},
	{models.EntityResidentialArea, "residential_area_id", true},
	{models.EntityArea, "area_id", true},
	{models.EntityStreet, "street_id", true},
	{models.EntityLane, "lane_id", true},
	{models.EntityImpasse, "impasse_id", true},
	{models.EntityPassage, "passage_id", true},
	{models.EntitySegment, "segment_id", true},
	{models.EntityNeighborhood, "neighborhood_id", true},
	{models.EntityMainOrganization, "main_organization_id", false},
	{models.EntitySubCategory, "sub_category_id", false},
	{models.EntityProductServiceSubCategory, "product_service_sub_category_id", false},
}

// orgScalarColumns lists the plain text columns of the organizations table in
// insert/update order. Foreign keys are handled separately because they are
// nullable uuids.
var orgScalarColumns = []string{
	"name", "legal_name", "inn", "description", "email", "mail",
	"address", "apartment", "home", "kvartal",
	"work_time", "lunch_time", "day_offs", "transport",
	"account", "bank", "mfo",
	"client_id", "staff_number", "edited_staff_number",
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func orgNamedArgs(org *models.Organization) pgx.NamedArgs {
	args := pgx.NamedArgs{
		"id":                  org.ID,
		"status":              org.Status,
		"created_by":          org.CreatedBy,
		"name":                org.Name,
		"legal_name":          org.LegalName,
		"inn":                 org.INN,
		"description":         org.Description,
		"email":               org.Email,
		"mail":                org.Mail,
		"address":             org.Address,
		"apartment":           org.Apartment,
		"home":                org.Home,
		"kvartal":             org.Kvartal,
		"work_time":           org.WorkTime,
		"lunch_time":          org.LunchTime,
		"day_offs":            org.DayOffs,
		"transport":           org.Transport,
		"account":             org.Account,
		"bank":                org.Bank,
		"mfo":                 org.MFO,
		"client_id":           org.ClientID,
		"staff_number":        org.StaffNumber,
		"edited_staff_number": org.EditedStaffNumber,
	}
	for _, rc := range orgRefColumns {
		args[rc.column] = nullableID(orgRefValue(org, rc.column))
	}
	return args
}

func orgRefValue(org *models.Organization, column string) string {
	for _, ref := range org.GeoRefs() {
		if ref.Column == column {
			return ref.ID
		}
	}
	return ""
}

func (r *organizationRepository) Create(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	if org.ID == "" {
		org.ID = utils.GenerateUUID()
	}

	cols := []string{"id", "status", "created_by"}
	cols = append(cols, orgScalarColumns...)
	for _, rc := range orgRefColumns {
		cols = append(cols, rc.column)
	}
	named := make([]string, len(cols))
	for i, c := range cols {
		named[i] = "@" + c
	}

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		insertSQL := fmt.Sprintf(
			"INSERT INTO organizations (%s) VALUES (%s) RETURNING created_at, updated_at",
			strings.Join(cols, ", "), strings.Join(named, ", "),
		)
		if err := tx.QueryRow(ctx, insertSQL, orgNamedArgs(org)).Scan(&org.CreatedAt, &org.UpdatedAt); err != nil {
			return fmt.Errorf("failed to insert organization: %w", mapDBError(err))
		}
		return insertChildren(ctx, tx, org)
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithField("organization_id", org.ID).Info("organization created")
	return org, nil
}

// insertChildren writes every owned child collection. Child rows get fresh
// ids so a snapshot replay never collides with rows it is replacing.
func insertChildren(ctx context.Context, tx pgx.Tx, org *models.Organization) error {
	if pt := org.PaymentTypes; pt != nil {
		if pt.ID == "" {
			pt.ID = utils.GenerateUUID()
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO organization_payment_types (id, organization_id, cash, terminal, transfer)
			 VALUES ($1, $2, $3, $4, $5)`,
			pt.ID, org.ID, pt.Cash, pt.Terminal, pt.Transfer)
		if err != nil {
			return fmt.Errorf("failed to insert payment types: %w", err)
		}
	}

	for i := range org.Phones {
		p := &org.Phones[i]
		p.ID = utils.GenerateUUID()
		_, err := tx.Exec(ctx,
			`INSERT INTO organization_phones (id, organization_id, phone, phone_type_id, is_secret)
			 VALUES ($1, $2, $3, $4, $5)`,
			p.ID, org.ID, p.Phone, p.PhoneTypeID, p.IsSecret)
		if err != nil {
			return fmt.Errorf("failed to insert phone: %w", err)
		}
	}

	for i := range org.Pictures {
		pic := &org.Pictures[i]
		pic.ID = utils.GenerateUUID()
		_, err := tx.Exec(ctx,
			`INSERT INTO organization_pictures (id, organization_id, link) VALUES ($1, $2, $3)`,
			pic.ID, org.ID, pic.Link)
		if err != nil {
			return fmt.Errorf("failed to insert picture: %w", err)
		}
	}

	for i := range org.Nearbees {
		nb := &org.Nearbees[i]
		nb.ID = utils.GenerateUUID()
		_, err := tx.Exec(ctx,
			`INSERT INTO organization_nearbees (id, organization_id, nearby_id, description)
			 VALUES ($1, $2, $3, $4)`,
			nb.ID, org.ID, nb.NearbyID, nb.Description)
		if err != nil {
			return fmt.Errorf("failed to insert nearby: %w", err)
		}
	}

	for i := range org.ProductServices {
		ps := &org.ProductServices[i]
		ps.ID = utils.GenerateUUID()
		_, err := tx.Exec(ctx,
			`INSERT INTO organization_product_services (id, organization_id, product_service_category_id, product_service_sub_category_id)
			 VALUES ($1, $2, $3, $4)`,
			ps.ID, org.ID, nullableID(ps.CategoryID), nullableID(ps.SubCategoryID))
		if err != nil {
			return fmt.Errorf("failed to insert product service: %w", err)
		}
	}
	return nil
}

var orgChildTables = []string{
	"organization_payment_types",
	"organization_phones",
	"organization_pictures",
	"organization_nearbees",
	"organization_product_services",
}

func (r *organizationRepository) ApplySnapshot(ctx context.Context, snapshot *models.Organization) error {
	if snapshot.ID == "" {
		return models.ErrNotFound
	}

	sets := []string{"status = @status", "created_by = @created_by", "updated_at = now()"}
	for _, c := range orgScalarColumns {
		sets = append(sets, fmt.Sprintf("%s = @%s", c, c))
	}
	for _, rc := range orgRefColumns {
		sets = append(sets, fmt.Sprintf("%s = @%s", rc.column, rc.column))
	}

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		updateSQL := fmt.Sprintf("UPDATE organizations SET %s WHERE id = @id", strings.Join(sets, ", "))
		tag, err := tx.Exec(ctx, updateSQL, orgNamedArgs(snapshot))
		if err != nil {
			return fmt.Errorf("failed to apply snapshot: %w", mapDBError(err))
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		for _, table := range orgChildTables {
			if _, err := tx.Exec(ctx,
				fmt.Sprintf("DELETE FROM %s WHERE organization_id = $1", table), snapshot.ID); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return insertChildren(ctx, tx, snapshot)
	})
	if err != nil {
		return err
	}

	r.logger.WithField("organization_id", snapshot.ID).Info("organization snapshot applied")
	return nil
}

func (r *organizationRepository) SetStatus(ctx context.Context, id string, status models.OrganizationStatus) error {
	tag, err := r.db.DB().Exec(ctx,
		"UPDATE organizations SET status = $2, updated_at = now() WHERE id = $1", id, status)
	if err != nil {
		return fmt.Errorf("failed to set organization status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *organizationRepository) Status(ctx context.Context, id string) (models.OrganizationStatus, error) {
	var status models.OrganizationStatus
	err := r.db.DB().QueryRow(ctx,
		"SELECT status FROM organizations WHERE id = $1", id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read organization status: %w", err)
	}
	return status, nil
}

func (r *organizationRepository) FindOne(ctx context.Context, id string) (*models.Organization, error) {
	sql := fmt.Sprintf(
		"SELECT %s FROM organizations o WHERE o.id = $1 AND o.status <> $2",
		orgProjection(),
	)
	org, err := scanOrganization(r.db.DB().QueryRow(ctx, sql, id, models.OrganizationStatusDeleted))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return org, nil
}

func (r *organizationRepository) FindAll(ctx context.Context, filter models.OrganizationFilter, take, skip int) ([]*models.Organization, int, error) {
	where, args := buildOrgWhere(filter)
	whereSQL := strings.Join(where, " AND ")

	var count int
	countSQL := "SELECT count(*) FROM organizations o WHERE " + whereSQL
	if err := r.db.DB().QueryRow(ctx, countSQL, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count organizations: %w", err)
	}
	if count == 0 {
		return []*models.Organization{}, 0, nil
	}

	listSQL := fmt.Sprintf(
		"SELECT %s FROM organizations o WHERE %s ORDER BY o.created_at DESC",
		orgProjection(), whereSQL,
	)
	if take > 0 {
		listSQL += fmt.Sprintf(" LIMIT %d OFFSET %d", take, skip)
	}

	rows, err := r.db.DB().Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	orgs := make([]*models.Organization, 0, take)
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, err
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed reading organization rows: %w", err)
	}
	return orgs, count, nil
}

// buildOrgWhere translates the listing filter into WHERE clauses. Deleted
// records are hidden unless an explicit status is requested.
func buildOrgWhere(filter models.OrganizationFilter) ([]string, []any) {
	var where []string
	var args []any

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		where = append(where, "o.status = "+next(filter.Status))
	} else {
		where = append(where, "o.status <> "+next(models.OrganizationStatusDeleted))
	}

	like := func(column, value string) {
		if value != "" {
			where = append(where, fmt.Sprintf("o.%s ILIKE '%%' || %s || '%%'", column, next(value)))
		}
	}
	like("name", filter.Name)
	like("legal_name", filter.LegalName)
	like("inn", filter.INN)
	like("address", filter.Address)
	like("apartment", filter.Apartment)

	eq := func(column, value string) {
		if value != "" {
			where = append(where, fmt.Sprintf("o.%s = %s", column, next(value)))
		}
	}
	eq("region_id", filter.RegionID)
	eq("city_id", filter.CityID)
	eq("district_id", filter.DistrictID)
	eq("village_id", filter.VillageID)
	eq("sub_category_id", filter.SubCategoryID)

	if filter.CategoryID != "" {
		where = append(where, fmt.Sprintf(
			"o.sub_category_id IN (SELECT sc.id FROM sub_categories sc WHERE sc.category_id = %s)",
			next(filter.CategoryID)))
	}
	if filter.Phone != "" {
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM organization_phones p WHERE p.organization_id = o.id AND p.phone ILIKE '%%' || %s || '%%')",
			next(filter.Phone)))
	}
	if filter.PhoneTypeID != "" {
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM organization_phones p WHERE p.organization_id = o.id AND p.phone_type_id = %s)",
			next(filter.PhoneTypeID)))
	}
	if filter.NearbyID != "" {
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM organization_nearbees nb WHERE nb.organization_id = o.id AND nb.nearby_id = %s)",
			next(filter.NearbyID)))
	}
	if filter.ProductServiceCategoryID != "" {
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM organization_product_services ps WHERE ps.organization_id = o.id AND ps.product_service_category_id = %s)",
			next(filter.ProductServiceCategoryID)))
	}
	if filter.ProductServiceSubCategoryID != "" {
		p := next(filter.ProductServiceSubCategoryID)
		where = append(where, fmt.Sprintf(
			"(o.product_service_sub_category_id = %s OR EXISTS (SELECT 1 FROM organization_product_services ps WHERE ps.organization_id = o.id AND ps.product_service_sub_category_id = %s))",
			p, p))
	}

	if filter.BelongAbonent {
		where = append(where, "o.created_by = "+next(models.RoleClient))
	}
	if filter.Bounded {
		where = append(where, "o.created_by = "+next(models.RoleBilling))
	}
	if filter.Mine && filter.StaffNumber != "" {
		where = append(where, "o.staff_number = "+next(filter.StaffNumber))
	}

	if filter.Search != "" {
		p := next(filter.Search)
		var clauses []string
		for _, rc := range orgRefColumns {
			if !rc.geo {
				continue
			}
			cfg := models.Entities[rc.kind]
			clauses = append(clauses, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM %s t WHERE t.%s = o.%s AND t.search_vector @@ plainto_tsquery('simple', %s))",
				cfg.TranslationTable, fkColumn(rc.kind), rc.column, p))
		}
		where = append(where, "("+strings.Join(clauses, " OR ")+")")
	}

	return where, args
}

// orgProjection builds the aggregate read model: scalar columns, then the
// child collections and the related-name translations flattened to JSON on
// the server so one round trip returns the whole aggregate.
func orgProjection() string {
	cols := []string{"o.id", "o.status", "o.created_by"}
	for _, c := range orgScalarColumns {
		cols = append(cols, "o."+c)
	}
	for _, rc := range orgRefColumns {
		cols = append(cols, "o."+rc.column)
	}
	cols = append(cols, "o.created_at", "o.updated_at")

	cols = append(cols,
		`(SELECT jsonb_build_object('id', pt.id, 'cash', pt.cash, 'terminal', pt.terminal, 'transfer', pt.transfer)
		  FROM organization_payment_types pt WHERE pt.organization_id = o.id LIMIT 1) AS payment_types`,
		`(SELECT json_agg(jsonb_build_object('id', p.id, 'phone', p.phone, 'phone_type_id', p.phone_type_id, 'is_secret', p.is_secret) ORDER BY p.phone)
		  FROM organization_phones p WHERE p.organization_id = o.id) AS phones`,
		`(SELECT json_agg(jsonb_build_object('id', pic.id, 'link', pic.link) ORDER BY pic.link)
		  FROM organization_pictures pic WHERE pic.organization_id = o.id) AS pictures`,
		`(SELECT json_agg(jsonb_build_object('id', nb.id, 'nearby_id', nb.nearby_id, 'description', nb.description) ORDER BY nb.nearby_id)
		  FROM organization_nearbees nb WHERE nb.organization_id = o.id) AS nearbees`,
		`(SELECT json_agg(jsonb_build_object('id', ps.id, 'category_id', ps.product_service_category_id, 'sub_category_id', ps.product_service_sub_category_id))
		  FROM organization_product_services ps WHERE ps.organization_id = o.id) AS product_services`,
	)

	related := make([]string, 0, len(orgRefColumns))
	for _, rc := range orgRefColumns {
		cfg := models.Entities[rc.kind]
		related = append(related, fmt.Sprintf(
			"'%s', (SELECT jsonb_object_agg(t.language_code, t.name) FROM %s t WHERE t.%s = o.%s)",
			rc.kind, cfg.TranslationTable, fkColumn(rc.kind), rc.column))
	}
	cols = append(cols, "jsonb_build_object("+strings.Join(related, ", ")+") AS related")

	return strings.Join(cols, ", ")
}

func scanOrganization(row pgx.Row) (*models.Organization, error) {
	var (
		org     models.Organization
		created time.Time
		updated time.Time

		refVals = make([]*string, len(orgRefColumns))

		paymentJSON  []byte
		phonesJSON   []byte
		picturesJSON []byte
		nearbyJSON   []byte
		servicesJSON []byte
		relatedJSON  []byte
	)

	dest := []any{&org.ID, &org.Status, &org.CreatedBy,
		&org.Name, &org.LegalName, &org.INN, &org.Description, &org.Email, &org.Mail,
		&org.Address, &org.Apartment, &org.Home, &org.Kvartal,
		&org.WorkTime, &org.LunchTime, &org.DayOffs, &org.Transport,
		&org.Account, &org.Bank, &org.MFO,
		&org.ClientID, &org.StaffNumber, &org.EditedStaffNumber,
	}
	for i := range refVals {
		dest = append(dest, &refVals[i])
	}
	dest = append(dest, &created, &updated,
		&paymentJSON, &phonesJSON, &picturesJSON, &nearbyJSON, &servicesJSON, &relatedJSON)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	org.CreatedAt = created
	org.UpdatedAt = updated
	assignOrgRefs(&org, refVals)

	if err := decodeChildren(&org, paymentJSON, phonesJSON, picturesJSON, nearbyJSON, servicesJSON); err != nil {
		return nil, err
	}
	if err := decodeRelated(&org, refVals, relatedJSON); err != nil {
		return nil, err
	}
	return &org, nil
}

func assignOrgRefs(org *models.Organization, refVals []*string) {
	targets := map[string]*string{
		"region_id":                       &org.RegionID,
		"city_id":                         &org.CityID,
		"district_id":                     &org.DistrictID,
		"village_id":                      &org.VillageID,
		"avenue_id":                       &org.AvenueID,
		"residential_area_id":             &org.ResidentialAreaID,
		"area_id":                         &org.AreaID,
		"street_id":                       &org.StreetID,
		"lane_id":                         &org.LaneID,
		"impasse_id":                      &org.ImpasseID,
		"passage_id":                      &org.PassageID,
		"segment_id":                      &org.SegmentID,
		"neighborhood_id":                 &org.NeighborhoodID,
		"main_organization_id":            &org.MainOrganizationID,
		"sub_category_id":                 &org.SubCategoryID,
		"product_service_sub_category_id": &org.ProductServiceSubCategoryID,
	}
	for i, rc := range orgRefColumns {
		if refVals[i] != nil {
			*targets[rc.column] = *refVals[i]
		}
	}
}

func decodeChildren(org *models.Organization, payment, phones, pictures, nearbees, services []byte) error {
	if len(payment) > 0 {
		org.PaymentTypes = &models.PaymentTypes{}
		if err := json.Unmarshal(payment, org.PaymentTypes); err != nil {
			return fmt.Errorf("failed to decode payment types: %w", err)
		}
	}
	decode := func(raw []byte, dst any) error {
		if len(raw) == 0 {
			return nil
		}
		return json.Unmarshal(raw, dst)
	}
	if err := decode(phones, &org.Phones); err != nil {
		return fmt.Errorf("failed to decode phones: %w", err)
	}
	if err := decode(pictures, &org.Pictures); err != nil {
		return fmt.Errorf("failed to decode pictures: %w", err)
	}
	if err := decode(nearbees, &org.Nearbees); err != nil {
		return fmt.Errorf("failed to decode nearbees: %w", err)
	}
	if err := decode(services, &org.ProductServices); err != nil {
		return fmt.Errorf("failed to decode product services: %w", err)
	}
	return nil
}

// decodeRelated turns the flattened translation JSON into resolved reference
// entities keyed by kind. Only set foreign keys produce an entry.
func decodeRelated(org *models.Organization, refVals []*string, raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	var names map[models.EntityKind]models.LocalizedName
	if err := json.Unmarshal(raw, &names); err != nil {
		return fmt.Errorf("failed to decode related names: %w", err)
	}

	for i, rc := range orgRefColumns {
		if refVals[i] == nil {
			continue
		}
		if org.Related == nil {
			org.Related = make(map[models.EntityKind]*models.ReferenceEntity)
		}
		entity := &models.ReferenceEntity{
			ID:     *refVals[i],
			Status: models.EntityStatusActive,
		}
		if n, ok := names[rc.kind]; ok && n != nil {
			entity.Name = n
		}
		org.Related[rc.kind] = entity
	}
	return nil
}
