package models

import "time"

// ChildActionGet marks shadow child rows for a future differential sync
// protocol; the confirmation flow currently replays every row regardless.
const ChildActionGet = "GET"

// OrganizationVersion is the shadow/staging record of a proposed change to
// an organization. It mirrors the live aggregate's shape and carries the
// proposed method and its moderation status. Every version links its
// organization; the create path inserts the live row (status check for
// non-moderators) and seeds the paired version in the same call.
type OrganizationVersion struct {
	ID             string             `json:"id"`
	OrganizationID string             `json:"organization_id,omitempty"`
	Method         VersionMethod      `json:"method"`
	Status         OrganizationStatus `json:"status"`

	Snapshot Organization `json:"snapshot"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrganizationVersionFilter drives version listings for the moderation
// queue. It is organization-shaped on purpose: the filter set matches the
// live listing so moderators can narrow pending work the same way.
type OrganizationVersionFilter struct {
	All     bool `form:"all" json:"all"`
	Page    int  `form:"page" json:"page"`
	PerPage int  `form:"per_page" json:"per_page"`

	OrganizationID string             `form:"organization_id" json:"organization_id"`
	Name           string             `form:"name" json:"name"`
	INN            string             `form:"inn" json:"inn"`
	RegionID       string             `form:"region_id" json:"region_id"`
	CityID         string             `form:"city_id" json:"city_id"`
	Method         VersionMethod      `form:"method" json:"method"`
	Status         OrganizationStatus `form:"status" json:"status"`
	LanguageCode   LanguageCode       `form:"language_code" json:"language_code"`
}
