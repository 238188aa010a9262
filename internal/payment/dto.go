// AngelaMos | 2026
// dto.go

package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

type CreatePaymentRequest struct {
	StudentID   string          `json:"student_id"            validate:"required,uuid"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"              validate:"required"`
	Type        string          `json:"type"                  validate:"required,oneof=MONTHLY ANNUAL REGISTRATION OTHER"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=500"`
}

// UpdatePaymentRequest cannot set OVERDUE; only the overdue sweep does.
type UpdatePaymentRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	PaidDate    *time.Time       `json:"paid_date,omitempty"`
	Status      *string          `json:"status,omitempty"      validate:"omitempty,oneof=PENDING PAID CANCELLED"`
	Type        *string          `json:"type,omitempty"        validate:"omitempty,oneof=MONTHLY ANNUAL REGISTRATION OTHER"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=500"`
}

type PaymentResponse struct {
	ID          string          `json:"id"`
	StudentID   string          `json:"student_id"`
	StudentName string          `json:"student_name"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	PaidDate    *time.Time      `json:"paid_date,omitempty"`
	Status      string          `json:"status"`
	Type        string          `json:"type"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type MarkOverdueResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

type ChargeEmailResponse struct {
	Message   string `json:"message"`
	PaymentID string `json:"payment_id"`
	SentTo    string `json:"sent_to"`
}

type ListPaymentsParams struct {
	core.PageParams
	Owner     string
	StudentID string
	Status    string
	From      *time.Time
	To        *time.Time
}

func ToPaymentResponse(p *Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		StudentID:   p.StudentID,
		StudentName: p.StudentName,
		Amount:      p.Amount,
		DueDate:     p.DueDate,
		PaidDate:    p.PaidDate,
		Status:      p.Status,
		Type:        p.Type,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToPaymentResponseList(items []Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(items))
	for i := range items {
		out = append(out, ToPaymentResponse(&items[i]))
	}
	return out
}
