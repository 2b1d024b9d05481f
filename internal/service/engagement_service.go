package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"sheetboard/internal/core/apperr"
	"sheetboard/internal/domain"
	"sheetboard/pkg/utils"
)

type SubscribeInput struct {
	Email string `json:"email"`
}

type TestimonialInput struct {
	Feedback string `json:"feedback"`
	Rating   int    `json:"rating"`
}

type EngagementService struct {
	subscribers  domain.SubscriberRepository
	testimonials domain.TestimonialRepository
	log          *zap.Logger
}

func NewEngagementService(subs domain.SubscriberRepository, tms domain.TestimonialRepository, log *zap.Logger) *EngagementService {
	return &EngagementService{subscribers: subs, testimonials: tms, log: log}
}

func (s *EngagementService) Subscribe(ctx context.Context, in SubscribeInput) (*domain.Subscriber, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" {
		return nil, apperr.BadRequest("Email is required")
	}
	sub := &domain.Subscriber{ID: utils.NewID(), Email: email}
	if err := s.subscribers.Create(ctx, sub); err != nil {
		return nil, err
	}
	s.log.Info("newsletter subscription", zap.String("id", sub.ID))
	return sub, nil
}

func (s *EngagementService) CreateTestimonial(ctx context.Context, uid string, in TestimonialInput) (*domain.Testimonial, error) {
	feedback := strings.TrimSpace(in.Feedback)
	if feedback == "" {
		return nil, apperr.BadRequest("Feedback is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperr.BadRequest("Rating must be between 1 and 5")
	}
	t := &domain.Testimonial{ID: utils.NewID(), UserID: uid, Feedback: feedback, Rating: in.Rating}
	if err := s.testimonials.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
