package domain

import "time"

type Favorite struct {
	UserID    int64     `db:"user_id"`
	ProductID int64     `db:"product_id"`
	CreatedAt time.Time `db:"created_at"`
}
