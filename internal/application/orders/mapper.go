package orders

import (
	"github.com/jhoicas/yuandi-erp/internal/application/dto"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
)

func toOrderResponse(o *entity.Order, s *entity.Shipment) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerEmail:   o.CustomerEmail,
		ShippingAddress: o.ShippingAddress,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		DiscountAmount:  o.DiscountAmount,
		FinalAmount:     o.FinalAmount,
		RefundAmount:    o.RefundAmount,
		Currency:        o.Currency,
		CancelReason:    o.CancelReason,
		RefundReason:    o.RefundReason,
		Items:           make([]dto.OrderItemResponse, 0, len(o.Items)),
		PaidAt:          o.PaidAt,
		ShippedAt:       o.ShippedAt,
		CompletedAt:     o.CompletedAt,
		CancelledAt:     o.CancelledAt,
		RefundedAt:      o.RefundedAt,
		CreatedBy:       o.CreatedBy,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	if s != nil {
		out.Shipment = &dto.ShipmentResponse{
			Courier:        s.Courier,
			TrackingNumber: s.TrackingNumber,
			TrackingURL:    s.TrackingURL,
			ShippingFee:    s.ShippingFee,
			FeeCurrency:    s.FeeCurrency,
			ShippedAt:      s.ShippedAt,
		}
	}
	return out
}
