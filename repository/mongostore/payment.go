package mongostore

import (
	"context"

	"learnhub/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (s *Store) ListPaymentsByUser(ctx context.Context, userID string) ([]*models.PaymentRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[models.PaymentRecord](ctx, s.col(ColPayments), bson.D{{Key: "user_id", Value: userID}}, opts)
}

func (s *Store) CountPayments(ctx context.Context) (int64, error) {
	return count(ctx, s.col(ColPayments), bson.D{})
}
