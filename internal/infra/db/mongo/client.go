package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client holds the connection to the booking database.
type Client struct {
	db *mongo.Database
}

// Connect dials the booking database. Server selection is capped so a dead
// cluster surfaces at startup instead of hanging the first query.
func Connect(ctx context.Context, uri, database string) (*Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetAppName("domehouse").
		SetRetryWrites(true).
		SetServerSelectionTimeout(5 * time.Second)
	m, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect %s: %w", database, err)
	}
	return &Client{db: m.Database(database)}, nil
}

// Bookings returns the repository bound to this connection.
func (c *Client) Bookings() *BookingRepository {
	return NewBookingRepository(c.db)
}

// Ping backs the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.Client().Ping(ctx, nil)
}
