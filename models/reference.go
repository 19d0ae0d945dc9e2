package models

import "time"

// EntityKind names a reference-entity type in the directory.
type EntityKind string

const (
	EntityRegion                    EntityKind = "region"
	EntityCity                      EntityKind = "city"
	EntityDistrict                  EntityKind = "district"
	EntityStreet                    EntityKind = "street"
	EntityAvenue                    EntityKind = "avenue"
	EntityLane                      EntityKind = "lane"
	EntityImpasse                   EntityKind = "impasse"
	EntityPassage                   EntityKind = "passage"
	EntityVillage                   EntityKind = "village"
	EntityNeighborhood              EntityKind = "neighborhood"
	EntityResidentialArea           EntityKind = "residential_area"
	EntityArea                      EntityKind = "area"
	EntitySegment                   EntityKind = "segment"
	EntityMainOrganization          EntityKind = "main_organization"
	EntityCategory                  EntityKind = "category"
	EntitySubCategory               EntityKind = "sub_category"
	EntityPhoneType                 EntityKind = "phone_type"
	EntityNearbyCategory            EntityKind = "nearby_category"
	EntityNearby                    EntityKind = "nearby"
	EntityProductServiceCategory    EntityKind = "product_service_category"
	EntityProductServiceSubCategory EntityKind = "product_service_sub_category"
)

// ParentRef declares a foreign key from a reference entity to its parent.
type ParentRef struct {
	Kind     EntityKind
	Column   string
	Optional bool
}

// EntityConfig is the declarative schema of one reference entity: its base
// table, translation tables and parent references. The repository, the
// service layer, the DDL generator and the routers are all driven by this
// table instead of per-entity hand-written code.
type EntityConfig struct {
	Kind             EntityKind
	Table            string
	TranslationTable string
	// OldNameTable/NewNameTable are set for hierarchy entities that track
	// renaming history.
	OldNameTable string
	NewNameTable string
	Parents      []ParentRef
	// RoutePath is the HTTP route segment, e.g. "residential-area".
	RoutePath string
}

// HasHistory reports whether the entity keeps old/new name translations.
func (c EntityConfig) HasHistory() bool {
	return c.OldNameTable != "" && c.NewNameTable != ""
}

func geoParents(optionalDistrict bool) []ParentRef {
	return []ParentRef{
		{Kind: EntityRegion, Column: "region_id"},
		{Kind: EntityCity, Column: "city_id"},
		{Kind: EntityDistrict, Column: "district_id", Optional: optionalDistrict},
	}
}

func pluralize(kind EntityKind) string {
	s := string(kind)
	switch {
	case s == "nearby":
		return "nearbees"
	case len(s) >= 8 && s[len(s)-8:] == "category":
		return s[:len(s)-1] + "ies"
	default:
		return s + "s"
	}
}

func named(kind EntityKind, route string, history bool, parents ...ParentRef) EntityConfig {
	c := EntityConfig{
		Kind:             kind,
		Table:            pluralize(kind),
		TranslationTable: string(kind) + "_translations",
		Parents:          parents,
		RoutePath:        route,
	}
	if history {
		c.OldNameTable = string(kind) + "_old_name_translations"
		c.NewNameTable = string(kind) + "_new_name_translations"
	}
	return c
}

// Entities is the registry of every reference entity the directory manages.
var Entities = map[EntityKind]EntityConfig{
	EntityRegion: named(EntityRegion, "region", false),
	EntityCity: named(EntityCity, "city", false,
		ParentRef{Kind: EntityRegion, Column: "region_id"}),
	EntityDistrict: named(EntityDistrict, "district", true,
		ParentRef{Kind: EntityRegion, Column: "region_id"},
		ParentRef{Kind: EntityCity, Column: "city_id"}),
	EntityStreet:          named(EntityStreet, "street", true, geoParents(true)...),
	EntityAvenue:          named(EntityAvenue, "avenue", true, geoParents(false)...),
	EntityLane:            named(EntityLane, "lane", true, geoParents(false)...),
	EntityImpasse:         named(EntityImpasse, "impasse", true, geoParents(false)...),
	EntityPassage:         named(EntityPassage, "passage", true, geoParents(false)...),
	EntityVillage:         named(EntityVillage, "village", true, geoParents(true)...),
	EntityNeighborhood:    named(EntityNeighborhood, "neighborhood", true, geoParents(false)...),
	EntityResidentialArea: named(EntityResidentialArea, "residential-area", true, geoParents(false)...),
	EntityArea:            named(EntityArea, "area", true, geoParents(false)...),
	EntitySegment:         named(EntitySegment, "segment", false, geoParents(true)...),

	EntityMainOrganization: named(EntityMainOrganization, "main-organization", false),
	EntityCategory:         named(EntityCategory, "category", false),
	EntitySubCategory: named(EntitySubCategory, "sub-category", false,
		ParentRef{Kind: EntityCategory, Column: "category_id"}),
	EntityPhoneType:      named(EntityPhoneType, "phone-type", false),
	EntityNearbyCategory: named(EntityNearbyCategory, "nearby-category", false),
	EntityNearby: named(EntityNearby, "nearby", false,
		ParentRef{Kind: EntityNearbyCategory, Column: "nearby_category_id"}),
	EntityProductServiceCategory: named(EntityProductServiceCategory, "product-service-category", false),
	EntityProductServiceSubCategory: named(EntityProductServiceSubCategory, "product-service-sub-category", false,
		ParentRef{Kind: EntityProductServiceCategory, Column: "product_service_category_id"}),
}

// EntityOrder lists kinds parents-first so DDL and fixtures can be applied
// without dangling references.
var EntityOrder = []EntityKind{
	EntityRegion, EntityCity, EntityDistrict,
	EntityStreet, EntityAvenue, EntityLane, EntityImpasse, EntityPassage,
	EntityVillage, EntityNeighborhood, EntityResidentialArea, EntityArea, EntitySegment,
	EntityMainOrganization,
	EntityCategory, EntitySubCategory,
	EntityPhoneType,
	EntityNearbyCategory, EntityNearby,
	EntityProductServiceCategory, EntityProductServiceSubCategory,
}

// ReferenceRecord is the raw repository shape of a reference entity: base row
// plus unformatted translation rows. The service layer collapses translations
// into LocalizedName values before the record leaves the API.
type ReferenceRecord struct {
	ID        string            `json:"id"`
	Status    EntityStatus      `json:"status"`
	ParentIDs map[string]string `json:"-"`
	Names     []Translation     `json:"-"`
	OldNames  []Translation     `json:"-"`
	NewNames  []Translation     `json:"-"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ReferenceEntity is the formatted API shape of a reference entity. Name
// fields hold either a bare string (single-language request) or a
// LocalizedName map (all languages).
type ReferenceEntity struct {
	ID        string                          `json:"id"`
	Status    EntityStatus                    `json:"status"`
	Name      interface{}                     `json:"name"`
	OldName   interface{}                     `json:"old_name,omitempty"`
	NewName   interface{}                     `json:"new_name,omitempty"`
	Parents   map[EntityKind]*ReferenceEntity `json:"parents,omitempty"`
	CreatedAt time.Time                       `json:"created_at"`
	UpdatedAt time.Time                       `json:"updated_at"`
}

// CreateReferenceRequest creates a reference entity with its translations.
type CreateReferenceRequest struct {
	Name      []Translation     `json:"name" validate:"required,min=1,max=3,dive"`
	OldName   []Translation     `json:"old_name,omitempty" validate:"omitempty,max=3,dive"`
	NewName   []Translation     `json:"new_name,omitempty" validate:"omitempty,max=3,dive"`
	ParentIDs map[string]string `json:"parent_ids,omitempty"`
}

// UpdateReferenceRequest applies a partial update: only languages present in
// a name set are touched, absent languages keep their stored value.
type UpdateReferenceRequest struct {
	ID        string            `json:"id" validate:"required,uuid4"`
	Name      []Translation     `json:"name,omitempty" validate:"omitempty,max=3,dive"`
	OldName   []Translation     `json:"old_name,omitempty" validate:"omitempty,max=3,dive"`
	NewName   []Translation     `json:"new_name,omitempty" validate:"omitempty,max=3,dive"`
	ParentIDs map[string]string `json:"parent_ids,omitempty"`
}

// RemoveReferenceRequest soft-deletes by default; Delete forces a hard delete.
type RemoveReferenceRequest struct {
	ID     string `json:"id" validate:"required,uuid4"`
	Delete bool   `json:"delete"`
}
