package gormstore

import (
	"context"

	"learnhub/models"
)

func (s *Store) ListPaymentsByUser(ctx context.Context, userID string) ([]*models.PaymentRecord, error) {
	payments := []*models.PaymentRecord{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&payments).Error
	if err != nil {
		return nil, wrapError(err)
	}
	return payments, nil
}

func (s *Store) CountPayments(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.PaymentRecord{}).Count(&n).Error
	return n, wrapError(err)
}
