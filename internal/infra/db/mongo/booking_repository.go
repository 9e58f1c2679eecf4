package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domainbooking "domehouse/internal/domain/booking"
	"domehouse/internal/domain/calendar"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

func (r *BookingRepository) All(ctx context.Context) ([]*domainbooking.Booking, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		b, err := doc.toBooking()
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, cursor.Err()
}

func (r *BookingRepository) BySession(ctx context.Context, sessionID string) (*domainbooking.Booking, error) {
	var doc bookingDocument
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domainbooking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toBooking()
}

func (r *BookingRepository) Create(ctx context.Context, b *domainbooking.Booking) error {
	_, err := r.col.InsertOne(ctx, newBookingDocument(b))
	return err
}

// ConfirmPayment applies the paid transition to every row holding the
// session id in one update; redelivered webhooks match zero rows.
func (r *BookingRepository) ConfirmPayment(ctx context.Context, sessionID, email string) (int64, error) {
	if sessionID == "" {
		return 0, nil
	}
	res, err := r.col.UpdateMany(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{
			"paid":       true,
			"session_id": "",
			"email":      email,
			"updated_at": time.Now().UTC().UnixMilli(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Dates are stored as ISO day strings; bookings are keyed by calendar
// identity, never by instant.
type bookingDocument struct {
	ID        string `bson:"_id"`
	From      string `bson:"from"`
	To        string `bson:"to"`
	Price     int64  `bson:"price"`
	SessionID string `bson:"session_id"`
	Paid      bool   `bson:"paid"`
	Email     string `bson:"email"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:        b.ID,
		From:      b.From.String(),
		To:        b.To.String(),
		Price:     b.Price,
		SessionID: b.SessionID,
		Paid:      b.Paid,
		Email:     b.Email,
		CreatedAt: b.CreatedAt.UnixMilli(),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
	}
}

func (d bookingDocument) toBooking() (*domainbooking.Booking, error) {
	from, err := calendar.ParseDate(d.From)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", d.ID, err)
	}
	to, err := calendar.ParseDate(d.To)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", d.ID, err)
	}
	return &domainbooking.Booking{
		ID:        d.ID,
		From:      from,
		To:        to,
		Price:     d.Price,
		SessionID: d.SessionID,
		Paid:      d.Paid,
		Email:     d.Email,
		CreatedAt: time.UnixMilli(d.CreatedAt).UTC(),
		UpdatedAt: time.UnixMilli(d.UpdatedAt).UTC(),
	}, nil
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
