package remote

import "encoding/json"

// PullParams identifies the tenant context for catalog pulls.
type PullParams struct {
	TenantDomain string   `json:"-" validate:"required"`
	AccessToken  string   `json:"-" validate:"required"`
	Channel      string   `json:"channel"`
	LocationID   string   `json:"location_id" validate:"required"`
	BrandID      string   `json:"brand_id"`
	OrderModeIDs []string `json:"order_mode_ids"`
}

// Backend DTOs mirror the remote payloads field for field. Optional fields
// stay pointers so the mapping layer can apply explicit defaults.

type ProductGroupDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Active    *bool  `json:"active"`
	SortOrder *int   `json:"sort_order"`
}

type ProductCategoryDTO struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	Name      string `json:"name"`
	Active    *bool  `json:"active"`
	SortOrder *int   `json:"sort_order"`
}

type ProductDTO struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       *float64        `json:"price"`
	Active      *bool           `json:"active"`
	ImageURL    *string         `json:"image_url"`
	TagIDs      json.RawMessage `json:"tag_ids"`
}

type TagGroupDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MinSelect *int   `json:"min_select"`
	MaxSelect *int   `json:"max_select"`
	Active    *bool  `json:"active"`
}

type ProductTagDTO struct {
	ID         string   `json:"id"`
	TagGroupID string   `json:"tag_group_id"`
	Name       string   `json:"name"`
	Price      *float64 `json:"price"`
	Active     *bool    `json:"active"`
}

// ProductCombinationsDTO is the aggregate response of the
// product-combinations pull.
type ProductCombinationsDTO struct {
	Groups     []ProductGroupDTO    `json:"groups"`
	Categories []ProductCategoryDTO `json:"categories"`
	Products   []ProductDTO         `json:"products"`
	TagGroups  []TagGroupDTO        `json:"tag_groups"`
	Tags       []ProductTagDTO      `json:"tags"`
}

type ChargeDTO struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ChargeType string   `json:"charge_type"`
	Value      *float64 `json:"value"`
	Active     *bool    `json:"active"`
}

type ChargeMappingDTO struct {
	ID          string `json:"id"`
	ChargeID    string `json:"charge_id"`
	LocationID  string `json:"location_id"`
	OrderModeID string `json:"order_mode_id"`
	Active      *bool  `json:"active"`
}

// ChargesDTO is the aggregate response of the charges pull.
type ChargesDTO struct {
	Charges  []ChargeDTO        `json:"charges"`
	Mappings []ChargeMappingDTO `json:"mappings"`
}

type PaymentTypeDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Active    *bool  `json:"active"`
	SortOrder *int   `json:"sort_order"`
}

// TicketSyncResult is the backend's reply to a ticket submission.
type TicketSyncResult struct {
	TicketID string `json:"ticket_id"`
	ServerID string `json:"server_id"`
}

// WorkdaySyncResult carries the server-assigned workday id.
type WorkdaySyncResult struct {
	WorkdayID string `json:"workday_id"`
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}
