package handlers

import (
	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/server/http/dto"
)

func toNewOrder(req dto.CreateOrderRequest) model.NewOrder {
	in := model.NewOrder{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		OrderType:     model.OrderType(req.OrderType),
		PickupTime:    req.PickupTime,
		DeliveryFee:   req.DeliveryFee,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		CustomerNotes: req.CustomerNotes,
		Items:         make([]model.NewOrderItem, 0, len(req.Items)),
	}
	if req.DeliveryAddress != nil {
		in.DeliveryAddress = &model.DeliveryAddress{
			Street:   req.DeliveryAddress.Street,
			City:     req.DeliveryAddress.City,
			Landmark: req.DeliveryAddress.Landmark,
			Zone:     req.DeliveryAddress.Zone,
		}
	}
	for _, line := range req.Items {
		in.Items = append(in.Items, model.NewOrderItem{
			MenuItemID:     line.MenuItemID,
			PromotionID:    line.PromotionID,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			SelectedAddOns: line.SelectedAddOns,
			SpecialNotes:   line.SpecialNotes,
		})
	}
	return in
}

func toAddressPayload(addr *model.DeliveryAddress) *dto.AddressPayload {
	if addr == nil {
		return nil
	}
	return &dto.AddressPayload{Street: addr.Street, City: addr.City, Landmark: addr.Landmark, Zone: addr.Zone}
}

func toItemResponses(items []model.OrderItem) []dto.OrderItemResponse {
	out := make([]dto.OrderItemResponse, 0, len(items))
	for _, item := range items {
		addOns := item.SelectedAddOns
		if addOns == nil {
			addOns = []string{}
		}
		out = append(out, dto.OrderItemResponse{
			ID:             item.ID,
			LineNo:         item.LineNo,
			MenuItemID:     item.MenuItemID,
			MenuItemNameEN: item.MenuItemNameEN,
			MenuItemNameBN: item.MenuItemNameBN,
			PromotionID:    item.PromotionID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			TotalPrice:     item.TotalPrice,
			SelectedAddOns: addOns,
			SpecialNotes:   item.SpecialNotes,
		})
	}
	return out
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                     order.ID,
		DailyOrderNumber:       order.DailyOrderNumber,
		DisplayNumber:          order.DisplayNumber(),
		OrderDate:              order.OrderDate.Format(model.DateLayout),
		CustomerName:           order.CustomerName,
		CustomerPhone:          order.CustomerPhone,
		CustomerEmail:          order.CustomerEmail,
		OrderType:              string(order.OrderType),
		Status:                 string(order.Status),
		PickupTime:             order.PickupTime,
		DeliveryAddress:        toAddressPayload(order.DeliveryAddress),
		DeliveryFee:            order.DeliveryFee,
		Subtotal:               order.Subtotal,
		VATAmount:              order.VATAmount,
		Total:                  order.Total,
		PaymentMethod:          string(order.PaymentMethod),
		PaymentStatus:          string(order.PaymentStatus),
		CustomerNotes:          order.CustomerNotes,
		EstimatedPrepTime:      order.EstimatedPrepTime,
		ReceivedAt:             order.ReceivedAt,
		PreparingStartedAt:     order.PreparingStartedAt,
		ReadyAt:                order.ReadyAt,
		CollectedAt:            order.CollectedAt,
		CompletedAt:            order.CompletedAt,
		CancelledAt:            order.CancelledAt,
		PlacedAt:               order.PlacedAt,
		TrackingToken:          order.TrackingToken,
		TrackingTokenExpiresAt: order.TrackingTokenExpiresAt,
		CreatedAt:              order.CreatedAt,
		UpdatedAt:              order.UpdatedAt,
		Items:                  toItemResponses(order.Items),
	}
}

func toTrackingResponse(order model.Order) dto.TrackingResponse {
	return dto.TrackingResponse{
		DisplayNumber:      order.DisplayNumber(),
		CustomerName:       order.CustomerName,
		OrderType:          string(order.OrderType),
		Status:             string(order.Status),
		PickupTime:         order.PickupTime,
		EstimatedPrepTime:  order.EstimatedPrepTime,
		Subtotal:           order.Subtotal,
		VATAmount:          order.VATAmount,
		DeliveryFee:        order.DeliveryFee,
		Total:              order.Total,
		PlacedAt:           order.PlacedAt,
		ReceivedAt:         order.ReceivedAt,
		PreparingStartedAt: order.PreparingStartedAt,
		ReadyAt:            order.ReadyAt,
		CompletedAt:        order.CompletedAt,
		CancelledAt:        order.CancelledAt,
		ExpiresAt:          order.TrackingTokenExpiresAt,
		Items:              toItemResponses(order.Items),
	}
}

func toAuditTrailResponse(trail model.AuditTrail) dto.AuditTrailResponse {
	history := make([]dto.AuditEntryResponse, 0, len(trail.StatusHistory))
	for _, entry := range trail.StatusHistory {
		history = append(history, dto.AuditEntryResponse{
			Status:       string(entry.Status),
			Timestamp:    entry.Timestamp,
			ChangedBy:    entry.ChangedBy,
			Notes:        entry.Notes,
			WhatsAppSent: entry.WhatsAppSent,
		})
	}
	tl := trail.Timeline
	return dto.AuditTrailResponse{
		OrderID:          trail.OrderID,
		DailyOrderNumber: trail.DailyOrderNumber,
		StatusHistory:    history,
		Timeline: dto.TimelineResponse{
			ReceivedAt:             tl.ReceivedAt,
			PreparingStartedAt:     tl.PreparingStartedAt,
			ReadyAt:                tl.ReadyAt,
			CollectedAt:            tl.CollectedAt,
			TimeToPreparingMinutes: tl.TimeToPreparingMinutes,
			TimeToReadyMinutes:     tl.TimeToReadyMinutes,
			TimeToCompletedMinutes: tl.TimeToCompletedMinutes,
			PrepTimeMinutes:        tl.PrepTimeMinutes,
		},
	}
}

func toReportResponse(report model.ReportMetrics) dto.ReportResponse {
	hourly := make([]dto.HourlyBucketResponse, 0, len(report.Hourly))
	for _, b := range report.Hourly {
		hourly = append(hourly, dto.HourlyBucketResponse{Hour: b.Hour, Orders: b.Orders, Revenue: b.Revenue})
	}
	return dto.ReportResponse{
		From:                      report.From.Format(model.DateLayout),
		To:                        report.To.Format(model.DateLayout),
		TotalOrders:               report.TotalOrders,
		TotalRevenue:              report.TotalRevenue,
		TotalItemsSold:            report.TotalItemsSold,
		AvgOrderValue:             report.AvgOrderValue,
		AvgPrepTimeMinutes:        report.AvgPrepTimeMinutes,
		AvgTimeToReadyMinutes:     report.AvgTimeToReadyMinutes,
		AvgTimeToCompletedMinutes: report.AvgTimeToCompleted,
		PickupOrders:              report.PickupOrders,
		DeliveryOrders:            report.DeliveryOrders,
		CancelledOrders:           report.CancelledOrders,
		Hourly:                    hourly,
	}
}
