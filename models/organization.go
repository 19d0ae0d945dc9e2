package models

import "time"

// PaymentTypes is the single active payment-options row of an organization.
type PaymentTypes struct {
	ID       string `json:"id,omitempty"`
	Cash     bool   `json:"cash"`
	Terminal bool   `json:"terminal"`
	Transfer bool   `json:"transfer"`
}

// Phone is one contact phone of an organization.
type Phone struct {
	ID          string `json:"id,omitempty"`
	Phone       string `json:"phone" validate:"required,max=20"`
	PhoneTypeID string `json:"phone_type_id" validate:"required,uuid4"`
	IsSecret    bool   `json:"is_secret"`
	// Action is a forward-compat sync marker carried on shadow rows.
	Action string `json:"action,omitempty"`
}

// Picture is one image link of an organization.
type Picture struct {
	ID   string `json:"id,omitempty"`
	Link string `json:"link" validate:"required,url"`
	// Action is a forward-compat sync marker carried on shadow rows.
	Action string `json:"action,omitempty"`
}

// NearbyPlace ties an organization to a nearby reference point.
type NearbyPlace struct {
	ID          string `json:"id,omitempty"`
	NearbyID    string `json:"nearby_id" validate:"required,uuid4"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// ProductService classifies an organization's offering.
type ProductService struct {
	ID            string `json:"id,omitempty"`
	CategoryID    string `json:"category_id,omitempty" validate:"omitempty,uuid4"`
	SubCategoryID string `json:"sub_category_id,omitempty" validate:"omitempty,uuid4"`
}

// Organization is the live aggregate: the canonical record plus its owned
// child collections. Geography and classification references are resolved
// into ReferenceEntity values on read paths.
type Organization struct {
	ID        string             `json:"id"`
	Status    OrganizationStatus `json:"status"`
	CreatedBy ActorRole          `json:"created_by"`

	Name              string `json:"name"`
	LegalName         string `json:"legal_name,omitempty"`
	INN               string `json:"inn,omitempty"`
	Description       string `json:"description,omitempty"`
	Email             string `json:"email,omitempty"`
	Mail              string `json:"mail,omitempty"`
	Address           string `json:"address,omitempty"`
	Apartment         string `json:"apartment,omitempty"`
	Home              string `json:"home,omitempty"`
	Kvartal           string `json:"kvartal,omitempty"`
	WorkTime          string `json:"work_time,omitempty"`
	LunchTime         string `json:"lunch_time,omitempty"`
	DayOffs           string `json:"day_offs,omitempty"`
	Transport         string `json:"transport,omitempty"`
	Account           string `json:"account,omitempty"`
	Bank              string `json:"bank,omitempty"`
	MFO               string `json:"mfo,omitempty"`
	ClientID          string `json:"client_id,omitempty"`
	StaffNumber       string `json:"staff_number,omitempty"`
	EditedStaffNumber string `json:"edited_staff_number,omitempty"`

	// Geography references. Region and city are required, the rest are
	// optional depending on the address shape.
	RegionID          string `json:"region_id,omitempty"`
	CityID            string `json:"city_id,omitempty"`
	DistrictID        string `json:"district_id,omitempty"`
	VillageID         string `json:"village_id,omitempty"`
	AvenueID          string `json:"avenue_id,omitempty"`
	ResidentialAreaID string `json:"residential_area_id,omitempty"`
	AreaID            string `json:"area_id,omitempty"`
	StreetID          string `json:"street_id,omitempty"`
	LaneID            string `json:"lane_id,omitempty"`
	ImpasseID         string `json:"impasse_id,omitempty"`
	PassageID         string `json:"passage_id,omitempty"`
	SegmentID         string `json:"segment_id,omitempty"`
	NeighborhoodID    string `json:"neighborhood_id,omitempty"`

	// Classification references.
	MainOrganizationID          string `json:"main_organization_id,omitempty"`
	SubCategoryID               string `json:"sub_category_id,omitempty"`
	ProductServiceSubCategoryID string `json:"product_service_sub_category_id,omitempty"`

	PaymentTypes    *PaymentTypes    `json:"payment_types,omitempty"`
	Phones          []Phone          `json:"phones,omitempty"`
	Pictures        []Picture        `json:"pictures,omitempty"`
	Nearbees        []NearbyPlace    `json:"nearbees,omitempty"`
	ProductServices []ProductService `json:"product_services,omitempty"`

	// Related holds resolved geography/classification entities with
	// formatted names, keyed by kind. Populated on read paths only.
	Related map[EntityKind]*ReferenceEntity `json:"related,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GeoRef is one foreign-key reference from an organization to a reference
// entity.
type GeoRef struct {
	Kind   EntityKind
	Column string
	ID     string
}

// GeoRefs returns the geography/classification foreign keys that are set,
// as (kind, column, id) tuples.
func (o *Organization) GeoRefs() []GeoRef {
	all := []GeoRef{
		{EntityRegion, "region_id", o.RegionID},
		{EntityCity, "city_id", o.CityID},
		{EntityDistrict, "district_id", o.DistrictID},
		{EntityVillage, "village_id", o.VillageID},
		{EntityAvenue, "avenue_id", o.AvenueID},
		{EntityResidentialArea, "residential_area_id", o.ResidentialAreaID},
		{EntityArea, "area_id", o.AreaID},
		{EntityStreet, "street_id", o.StreetID},
		{EntityLane, "lane_id", o.LaneID},
		{EntityImpasse, "impasse_id", o.ImpasseID},
		{EntityPassage, "passage_id", o.PassageID},
		{EntitySegment, "segment_id", o.SegmentID},
		{EntityNeighborhood, "neighborhood_id", o.NeighborhoodID},
		{EntityMainOrganization, "main_organization_id", o.MainOrganizationID},
		{EntitySubCategory, "sub_category_id", o.SubCategoryID},
		{EntityProductServiceSubCategory, "product_service_sub_category_id", o.ProductServiceSubCategoryID},
	}
	refs := make([]GeoRef, 0, len(all))
	for _, r := range all {
		if r.ID != "" {
			refs = append(refs, r)
		}
	}
	return refs
}

// RequiredOrganizationRefs lists the references that must be present on
// create.
var RequiredOrganizationRefs = []EntityKind{EntityRegion, EntityCity}

// CreateOrganizationRequest is the payload for creating an organization.
// Role is resolved from the caller's token, never from the body.
type CreateOrganizationRequest struct {
	Organization
	Role ActorRole `json:"-"`
}

// UpdateOrganizationRequest stages a full replacement snapshot of an
// organization. Child collections are replaced wholesale on confirmation.
type UpdateOrganizationRequest struct {
	Organization
	Role ActorRole `json:"-"`
}

// OrganizationFilter drives the dynamic listing query.
type OrganizationFilter struct {
	All     bool `form:"all" json:"all"`
	Page    int  `form:"page" json:"page"`
	PerPage int  `form:"per_page" json:"per_page"`

	Address       string `form:"address" json:"address"`
	Apartment     string `form:"apartment" json:"apartment"`
	Name          string `form:"name" json:"name"`
	LegalName     string `form:"legal_name" json:"legal_name"`
	INN           string `form:"inn" json:"inn"`
	Phone         string `form:"phone" json:"phone"`
	PhoneTypeID   string `form:"phone_type_id" json:"phone_type_id"`
	CategoryID    string `form:"category_id" json:"category_id"`
	SubCategoryID string `form:"sub_category_id" json:"sub_category_id"`
	RegionID      string `form:"region_id" json:"region_id"`
	CityID        string `form:"city_id" json:"city_id"`
	DistrictID    string `form:"district_id" json:"district_id"`
	VillageID     string `form:"village_id" json:"village_id"`
	NearbyID      string `form:"nearby_id" json:"nearby_id"`

	ProductServiceCategoryID    string `form:"product_service_category_id" json:"product_service_category_id"`
	ProductServiceSubCategoryID string `form:"product_service_sub_category_id" json:"product_service_sub_category_id"`

	// Search runs a full-text query over the address-hierarchy translation
	// search vectors.
	Search string `form:"search" json:"search"`

	// BelongAbonent narrows to client-created records, Bounded to
	// billing-created ones, Mine to the caller's staff number.
	BelongAbonent bool   `form:"belong_abonent" json:"belong_abonent"`
	Bounded       bool   `form:"bounded" json:"bounded"`
	Mine          bool   `form:"mine" json:"mine"`
	StaffNumber   string `form:"-" json:"-"`

	Status       OrganizationStatus `form:"status" json:"status"`
	LanguageCode LanguageCode       `form:"language_code" json:"language_code"`
}

// ConfirmOrganizationRequest is a moderator's verdict on a pending version.
type ConfirmOrganizationRequest struct {
	ID     string             `json:"id" validate:"required,uuid4"`
	Status OrganizationStatus `json:"status" validate:"required,oneof=accepted rejected"`
	Role   ActorRole          `json:"-"`
}

// RemoveOrganizationRequest deletes (moderator) or stages a delete (client).
type RemoveOrganizationRequest struct {
	ID     string    `json:"id" validate:"required,uuid4"`
	Delete bool      `json:"delete"`
	Role   ActorRole `json:"-"`
}

// RestoreOrganizationRequest restores (moderator) or stages a restore.
type RestoreOrganizationRequest struct {
	ID   string    `json:"id" validate:"required,uuid4"`
	Role ActorRole `json:"-"`
}
