package specs

// OrganizationSpec represents a single row of the Organizations table.
//
// Organizations are the companies managed by account managers. Every field
// except Name may be null in the source spreadsheet; null cells are nil.
type OrganizationSpec struct {
	// Organization name.
	//
	// Used as the join key for orders (Order.Organization). Names are not
	// guaranteed unique in the source; duplicate names are a data-quality
	// defect and the first row in input order wins any join.
	Name string `json:"name"`

	// Account manager who owns the organization.
	//
	// Null owners cannot be attributed and are left out of the owner/country
	// summary, but still appear in the unsegmented listing.
	Owner *string `json:"owner"`

	// Country the organization operates in.
	Country *string `json:"country"`

	// Business segment label (e.g. "SMB", "Enterprise").
	//
	// Null or blank means the organization has not been segmented yet.
	Segment *string `json:"segment"`

	// Free-text lifecycle status.
	//
	// Case and surrounding whitespace are inconsistent in the source
	// (" active ", "PENDING"). Normalized to "Active", "Pending", "Suspended",
	// ...; null or blank values are bucketed as "Unspecified".
	Status *string `json:"status"`
}

// SubscriptionSpec represents a single row of the Subscriptions table.
//
// Subscriptions are filtered standalone; no identity relation to
// OrganizationSpec is assumed.
type SubscriptionSpec struct {
	// Lowercase status token, e.g. "active".
	Status string `json:"status"`

	// Company the subscription is linked to.
	//
	// Null signals the subscription is not yet linked to an organization.
	Company *string `json:"company"`

	// Console domain the subscription was provisioned on.
	ConsoleDomain *string `json:"console_domain"`

	// Product name.
	Product *string `json:"product"`
}

// NewCell converts a raw spreadsheet cell into a nullable field value.
//
// An empty cell is null. Whitespace-only cells are kept as-is so that the
// normalizers decide how to treat them.
func NewCell(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}

// CellValue returns the cell contents, or "" for a null cell.
func CellValue(cell *string) string {
	if cell == nil {
		return ""
	}
	return *cell
}
