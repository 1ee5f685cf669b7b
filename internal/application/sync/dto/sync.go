// Package dto defines response types for the sync orchestrator.
package dto

// StageCounts reports rows imported per catalog stage.
type StageCounts struct {
	ProductGroups     int `json:"product_groups"`
	ProductCategories int `json:"product_categories"`
	Products          int `json:"products"`
	TagGroups         int `json:"tag_groups"`
	ProductTags       int `json:"product_tags"`
	Charges           int `json:"charges"`
	ChargeMappings    int `json:"charge_mappings"`
	PaymentMethods    int `json:"payment_methods"`
}

// Total sums all imported rows.
func (c StageCounts) Total() int {
	return c.ProductGroups + c.ProductCategories + c.Products +
		c.TagGroups + c.ProductTags + c.Charges + c.ChargeMappings + c.PaymentMethods
}

// PullCatalogResult is the outcome of a full catalog pull.
type PullCatalogResult struct {
	Imported StageCounts `json:"imported"`
}

// PushResult partitions a push run into synced and failed record ids.
type PushResult struct {
	Synced []string `json:"synced"`
	Failed []string `json:"failed"`
}

// StatsResponse summarizes local sync state for the status screen and the
// logout gate. The top-level counts cover tickets and workdays combined.
type StatsResponse struct {
	Pending   int64        `json:"pending"`
	Failed    int64        `json:"failed"`
	Synced    int64        `json:"synced"`
	Tickets   RecordCounts `json:"tickets"`
	Workdays  RecordCounts `json:"workdays"`
	CanLogout bool         `json:"can_logout"`
}

// RecordCounts breaks the sync counts down per record kind.
type RecordCounts struct {
	Pending int64 `json:"pending"`
	Failed  int64 `json:"failed"`
	Synced  int64 `json:"synced"`
}
