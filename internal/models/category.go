package models

import "time"

// Category is the row shape of the categories table.
type Category struct {
	CategoryID int64     `db:"category_id"`
	Name       string    `db:"name"`
	Recurring  bool      `db:"recurring"`
	CreatedAt  time.Time `db:"created_at"`
}
