package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/domain/repository"
)

// ReportUseCase aggregates order metrics over a range of order dates.
type ReportUseCase struct {
	orders   repository.OrderRepository
	location *time.Location
}

// NewReportUseCase constructs ReportUseCase. Hourly buckets use location.
func NewReportUseCase(orders repository.OrderRepository, location *time.Location) *ReportUseCase {
	if location == nil {
		location = time.UTC
	}
	return &ReportUseCase{orders: orders, location: location}
}

// Metrics summarizes live orders with order_date in [from, to].
func (u *ReportUseCase) Metrics(ctx context.Context, from, to time.Time) (*model.ReportMetrics, error) {
	from, to, err := dateRange(from, to)
	if err != nil {
		return nil, err
	}
	orders, err := u.orders.ListByOrderDate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &model.ReportMetrics{
		From:          from,
		To:            to,
		TotalRevenue:  decimal.Zero,
		AvgOrderValue: decimal.Zero,
		Hourly:        []model.HourlyBucket{},
	}
	if len(orders) == 0 {
		return report, nil
	}

	var (
		prepSum                int
		readySum, completedSum float64
		readyCount, doneCount  int
	)
	buckets := make(map[int]*model.HourlyBucket)
	for _, o := range orders {
		report.TotalOrders++
		report.TotalRevenue = report.TotalRevenue.Add(o.Total)
		for _, item := range o.Items {
			report.TotalItemsSold += item.Quantity
		}
		switch o.OrderType {
		case model.OrderTypePickup:
			report.PickupOrders++
		case model.OrderTypeDelivery:
			report.DeliveryOrders++
		}
		if o.Status == model.OrderStatusCancelled {
			report.CancelledOrders++
		}
		prepSum += o.EstimatedPrepTime

		if d := model.MinutesBetween(o.ReceivedAt, o.ReadyAt); d != nil {
			readySum += *d
			readyCount++
		}
		if d := model.MinutesBetween(o.ReceivedAt, o.CollectedAt); d != nil {
			completedSum += *d
			doneCount++
		}

		hour := o.PlacedAt.In(u.location).Hour()
		bucket, ok := buckets[hour]
		if !ok {
			bucket = &model.HourlyBucket{Hour: hour, Revenue: decimal.Zero}
			buckets[hour] = bucket
		}
		bucket.Orders++
		bucket.Revenue = bucket.Revenue.Add(o.Total)
	}

	report.AvgOrderValue = report.TotalRevenue.Div(decimal.NewFromInt(int64(report.TotalOrders))).Round(2)
	report.AvgPrepTimeMinutes = float64(prepSum) / float64(report.TotalOrders)
	if readyCount > 0 {
		report.AvgTimeToReadyMinutes = readySum / float64(readyCount)
	}
	if doneCount > 0 {
		report.AvgTimeToCompleted = completedSum / float64(doneCount)
	}
	for hour := 0; hour < 24; hour++ {
		if b, ok := buckets[hour]; ok {
			report.Hourly = append(report.Hourly, *b)
		}
	}
	return report, nil
}
