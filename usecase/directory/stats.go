package directory

import (
	"context"
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fastygo/custdir/domain"
)

// RecordPurchase adds one transaction of amount to the customer's stats and
// refreshes the customer's updatedAt. An unknown id is accepted and keeps an
// orphan stats entry.
func (uc *UseCase) RecordPurchase(ctx context.Context, customerID string, amount float64) error {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return domain.ErrInvalidAmount
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.nowMillis()
	stats, ok := uc.state.Stats[customerID]
	if !ok {
		stats = domain.CustomerStats{
			TotalPurchases:    amount,
			TotalTransactions: 1,
			AverageOrderValue: amount,
		}
	} else {
		total := decimal.NewFromFloat(stats.TotalPurchases).Add(decimal.NewFromFloat(amount))
		stats.TotalTransactions++
		stats.TotalPurchases = total.InexactFloat64()
		stats.AverageOrderValue = stats.TotalPurchases / float64(stats.TotalTransactions)
	}
	stats.LastPurchaseDate = &now
	uc.state.Stats[customerID] = stats

	if customer, exists := uc.state.Customers[customerID]; exists {
		customer.UpdatedAt = now
		uc.state.Customers[customerID] = customer
	} else {
		uc.logger.Warn("purchase recorded for unknown customer", zap.String("customer_id", customerID))
	}

	uc.logger.Debug("purchase recorded",
		zap.String("customer_id", customerID),
		zap.Float64("amount", amount),
		zap.Int("transactions", stats.TotalTransactions),
	)
	return uc.persist(ctx, "record_purchase")
}
