package engagement

import (
	"time"

	"sheetboard/internal/domain"
)

type SubscriberModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(32)"`
	Email     string    `gorm:"size:255;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (SubscriberModel) TableName() string { return "subscribers" }

func SubscriberFromDomain(s *domain.Subscriber) *SubscriberModel {
	return &SubscriberModel{ID: s.ID, Email: s.Email, CreatedAt: s.CreatedAt}
}

type TestimonialModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(32)"`
	UserID    string    `gorm:"type:varchar(32);not null;index"`
	Feedback  string    `gorm:"type:text;not null"`
	Rating    int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (TestimonialModel) TableName() string { return "testimonials" }

func TestimonialFromDomain(t *domain.Testimonial) *TestimonialModel {
	return &TestimonialModel{ID: t.ID, UserID: t.UserID, Feedback: t.Feedback, Rating: t.Rating, CreatedAt: t.CreatedAt}
}
