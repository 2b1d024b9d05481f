package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"sheetboard/internal/domain"
	"sheetboard/internal/feature/engagement"
)

type SubscriberRepo struct{ db *gorm.DB }

func NewSubscriberRepo(db *gorm.DB) *SubscriberRepo { return &SubscriberRepo{db: db} }

func (r *SubscriberRepo) Create(ctx context.Context, s *domain.Subscriber) error {
	m := engagement.SubscriberFromDomain(s)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create subscriber: %w", err)
	}
	s.CreatedAt = m.CreatedAt
	return nil
}

type TestimonialRepo struct{ db *gorm.DB }

func NewTestimonialRepo(db *gorm.DB) *TestimonialRepo { return &TestimonialRepo{db: db} }

func (r *TestimonialRepo) Create(ctx context.Context, t *domain.Testimonial) error {
	m := engagement.TestimonialFromDomain(t)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create testimonial: %w", err)
	}
	t.CreatedAt = m.CreatedAt
	return nil
}
