package records

import "context"

// Repository port for persisting and querying analysis records
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Paginate(ctx context.Context, page, pageSize int) ([]*Record, error)
	LatestByTicket(ctx context.Context, ticketKey string) (*Record, error)
}

// Archive port for raw report storage
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
