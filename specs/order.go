package specs

// OrderSpec represents a single row of the Orders table.
//
// All fields except OrderID arrive as raw spreadsheet text and may be null.
// Parsing into amounts and dates happens in the normalizer, never here.
type OrderSpec struct {
	// Order identifier ("Order id").
	//
	// Orders are counted distinct by this value. Several rows can share an
	// ID when an order has multiple line items.
	OrderID string `json:"Order id"`

	// Organization name ("Organization").
	//
	// Best-effort foreign reference to OrganizationSpec.Name.
	Organization *string `json:"Organization"`

	// Identity of the order's creator ("Order created by"), usually an email.
	//
	// Creators on the internal email domain mark internally-brokered orders;
	// everything else, including a null creator, is marketplace origin.
	CreatedBy *string `json:"Order created by"`

	// Item type ("Order item type"), e.g. "new" or "renewal".
	ItemType *string `json:"Order item type"`

	// Total contract value of the item ("TCV Item").
	//
	// Messily formatted: thousands separators, currency symbols and
	// comma-as-decimal all occur. Examples: "$2,345.67", "2.345,67", "500".
	TCVItem *string `json:"TCV Item"`

	// Creation date ("Date Creation Order") in day-month-year format,
	// e.g. "15-01-2025".
	CreationDate *string `json:"Date Creation Order"`

	// Order status ("Order status").
	OrderStatus *string `json:"Order status"`

	// Product ("Product").
	Product *string `json:"Product"`
}

// OrderLineSpec is a classified, segment-joined order as listed in a report.
//
// Produced by the report assembler for the renewal and marketplace access
// listings.
type OrderLineSpec struct {
	OrderID      string `json:"order_id"`
	Organization string `json:"organization"`
	CreatedBy    string `json:"created_by"`
	ItemType     string `json:"item_type"`

	// Parsed amount as a decimal string.
	//
	// Null when the raw TCV value could not be parsed; such rows are listed
	// but excluded from every sum.
	Amount *string `json:"amount"`

	// Creation date as "YYYY-MM-DD".
	CreationDate string `json:"creation_date"`

	OrderStatus string `json:"order_status"`
	Product     string `json:"product"`

	// Segment of the order's organization, or "Sin Segmento".
	Segment string `json:"segment"`

	// "Internal" or "Market".
	Origin string `json:"origin"`

	Renewal           bool `json:"renewal"`
	MarketplaceAccess bool `json:"marketplace_access"`
}
