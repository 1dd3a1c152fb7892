package models

// Course is the database representation of a purchasable course.
type Course struct {
	CourseID    string `db:"course_id"`
	Title       string `db:"title"`
	Price       int64  `db:"price"`
	PriceLocked bool   `db:"price_locked"`
	IsPublished bool   `db:"is_published"`
	AuditFields
}

// PriceChange is the database representation of one course price update.
type PriceChange struct {
	HistoryID string `db:"history_id"`
	CourseID  string `db:"course_id"`
	OldPrice  int64  `db:"old_price"`
	NewPrice  int64  `db:"new_price"`
	Reason    string `db:"reason"`
	AuditFields
}
