package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"sheetboard/internal/core/apperr"
	"sheetboard/internal/domain"
)

var planNames = map[string]string{
	domain.PlanFree:       "Free",
	domain.PlanPro:        "Pro",
	domain.PlanEnterprise: "Enterprise",
}

type BuyPlanInput struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type PlanService struct {
	users domain.UserRepository
	log   *zap.Logger
	now   func() time.Time
}

func NewPlanService(users domain.UserRepository, log *zap.Logger) *PlanService {
	return &PlanService{users: users, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// BuyPlan overwrites the user's plan. There is no payment step and no history.
func (s *PlanService) BuyPlan(ctx context.Context, uid string, in BuyPlanInput) (domain.Plan, error) {
	id := strings.ToLower(strings.TrimSpace(in.ID))
	if !domain.ValidPlanID(id) {
		return domain.Plan{}, apperr.BadRequest("Invalid plan")
	}
	if in.Price < 0 {
		return domain.Plan{}, apperr.BadRequest("Invalid plan price")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = planNames[id]
	}

	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return domain.Plan{}, err
	}
	if u == nil {
		return domain.Plan{}, apperr.NotFound(msgUserNotFound)
	}
	u.Plan = domain.Plan{
		ID:          id,
		Name:        name,
		Price:       in.Price,
		Status:      domain.PlanStatusSuccess,
		PurchasedAt: s.now(),
	}
	if err := s.users.Update(ctx, u); err != nil {
		return domain.Plan{}, err
	}
	s.log.Info("plan purchased", zap.String("uid", uid), zap.String("plan", id), zap.Float64("price", in.Price))
	return u.Plan, nil
}
