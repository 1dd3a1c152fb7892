package domain

// Course is the purchasable item the ledger debits against. Only the fields
// the payment core needs are modelled here; content management lives elsewhere.
//
// Price is in minor currency units. Once PriceLocked is set (first successful
// purchase) the listed price can no longer change; all later purchasers pay
// the locked price regardless of attempted updates.
type Course struct {
	CourseID    string `json:"courseID"` // Primary Key (UUID)
	Title       string `json:"title"`
	Price       int64  `json:"price"`
	PriceLocked bool   `json:"priceLocked"`
	IsPublished bool   `json:"isPublished"`
	AuditFields
}

// PriceChange records one historical price update for a course.
type PriceChange struct {
	HistoryID string `json:"historyID"` // Primary Key (UUID)
	CourseID  string `json:"courseID"`
	OldPrice  int64  `json:"oldPrice"`
	NewPrice  int64  `json:"newPrice"`
	Reason    string `json:"reason"`
	AuditFields
}

// CourseStats is a derived view over non-refunded purchases of a course.
// It is computed on read, never cached as a source of truth.
type CourseStats struct {
	CourseID       string `json:"courseID"`
	TotalPurchases int    `json:"totalPurchases"`
	ActiveStudents int    `json:"activeStudents"`
	TotalRevenue   int64  `json:"totalRevenue"` // Minor units
}
