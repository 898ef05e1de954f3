package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Cost      int64     `db:"cost"`
	CreatedAt time.Time `db:"created_at"`
}

// OrderModel представляет запись таблицы orders в PostgreSQL.
type OrderModel struct {
	ID            int64     `db:"id"`
	Code          string    `db:"order_code"`
	CustomerName  string    `db:"customer_name"`
	CustomerEmail string    `db:"customer_email"`
	ProductID     int64     `db:"product_id"`
	Quantity      int32     `db:"quantity"`
	TotalCost     int64     `db:"total_cost"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	OrderID     int64      `db:"order_id"`
	OrderCode   string     `db:"order_code"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
