package orders

import (
	"context"
	"time"

	"hagyustic/internal/apperr"
)

// AnalyticsReport is the admin dashboard rollup. Field names mirror the wire
// contract consumed by the dashboard.
type AnalyticsReport struct {
	TotalSales       float64       `json:"totalSales"`
	TotalOrders      int64         `json:"totalOrders"`
	ActiveUsers      int64         `json:"activeUsers"`
	LowStockProducts int64         `json:"lowStockProducts"`
	MonthlySales     []MonthlySale `json:"monthlySales"`
}

// MonthKey formats a timestamp as the bucket key used by the monthly sales
// rollup.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// Analytics recomputes the dashboard report from the store on every call.
// The report is composed of several independent reads; orders mutated while
// it runs may make the numbers mutually inconsistent, which is acceptable for
// an advisory dashboard.
func (s *Service) Analytics(ctx context.Context) (AnalyticsReport, error) {
	var report AnalyticsReport
	var err error

	if report.TotalSales, err = s.store.TotalSales(ctx); err != nil {
		return report, apperr.Internal("failed to fetch analytics", err)
	}
	if report.TotalOrders, err = s.store.CountOrders(ctx); err != nil {
		return report, apperr.Internal("failed to fetch analytics", err)
	}
	if report.ActiveUsers, err = s.store.CountActiveUsers(ctx); err != nil {
		return report, apperr.Internal("failed to fetch analytics", err)
	}
	if report.LowStockProducts, err = s.store.CountLowStockProducts(ctx, s.lowStockThreshold); err != nil {
		return report, apperr.Internal("failed to fetch analytics", err)
	}

	sixMonthsAgo := time.Now().AddDate(0, -6, 0)
	if report.MonthlySales, err = s.store.MonthlySales(ctx, sixMonthsAgo); err != nil {
		return report, apperr.Internal("failed to fetch analytics", err)
	}

	return report, nil
}
