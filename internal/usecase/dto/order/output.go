package orderdto

import "github.com/LavaJover/shvark-booking-service/internal/domain"

type ListOrdersOutput struct {
	Orders []*domain.Order
	Total  int64
	Page   int
	Limit  int
}
