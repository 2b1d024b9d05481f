package domain

import (
	"context"
	"time"
)

type Subscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type Testimonial struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Feedback  string    `json:"feedback"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

type SubscriberRepository interface {
	Create(ctx context.Context, s *Subscriber) error
}

type TestimonialRepository interface {
	Create(ctx context.Context, t *Testimonial) error
}
