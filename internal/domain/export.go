package domain

import (
	"fmt"
	"time"
)

// ExportRequest asks the export worker for an XLSX report of a tenant's orders.
type ExportRequest struct {
	ID          string      `json:"id"`
	TenantID    string      `json:"tenant_id"`
	Status      OrderStatus `json:"status,omitempty"`
	Type        OrderType   `json:"type,omitempty"`
	From        time.Time   `json:"from,omitempty"`
	To          time.Time   `json:"to,omitempty"`
	RequestedBy string      `json:"requested_by,omitempty"`
	RequestedAt time.Time   `json:"requested_at"`
}

func (r *ExportRequest) Filter() OrderFilter {
	return OrderFilter{Status: r.Status, Type: r.Type, From: r.From, To: r.To}
}

// ObjectKey is where the finished report is stored.
func (r *ExportRequest) ObjectKey(prefix string) string {
	return fmt.Sprintf("%s/%s/%s/orders_%s.xlsx", prefix, r.TenantID, r.RequestedAt.UTC().Format("2006/01/02"), r.ID)
}
