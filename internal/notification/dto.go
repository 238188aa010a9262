// AngelaMos | 2026
// dto.go

package notification

import (
	"strconv"
	"time"
)

type CreateNotificationRequest struct {
	UserID    string  `json:"user_id"              validate:"required,uuid"`
	StudentID *string `json:"student_id,omitempty" validate:"omitempty,uuid"`
	Type      Type    `json:"type"                 validate:"omitempty,oneof=PAYMENT_DUE PAYMENT_OVERDUE BIRTHDAY APPOINTMENT_REMINDER PLAN_EXPIRING GENERAL"`
	Title     string  `json:"title"                validate:"required,min=1,max=200"`
	Message   string  `json:"message"              validate:"required,min=1,max=2000"`
}

type NotificationResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	StudentID *string    `json:"student_id,omitempty"`
	Type      Type       `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type MarkAllReadResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

type TriggerResponse struct {
	Message   string       `json:"message"`
	Count     int          `json:"count"`
	Corrected int64        `json:"corrected"`
	Results   []RuleResult `json:"results,omitempty"`
}

func ToNotificationResponse(n *Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		StudentID: n.StudentID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationResponseList(items []Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for i := range items {
		out = append(out, ToNotificationResponse(&items[i]))
	}
	return out
}

// Summarize folds one or more sweep results into the trigger response.
func Summarize(results ...RuleResult) TriggerResponse {
	resp := TriggerResponse{}
	for _, r := range results {
		resp.Count += r.Created
		resp.Corrected += r.Corrected
	}

	switch {
	case len(results) == 1:
		resp.Message = ruleMessage(results[0].Rule, resp.Count)
	default:
		resp.Message = "manual check completed"
		resp.Results = results
	}
	return resp
}

func ruleMessage(rule Rule, count int) string {
	switch rule {
	case RuleOverdue:
		return strconv.Itoa(count) + " notifications created for overdue payments"
	case RuleDueSoon:
		return strconv.Itoa(count) + " notifications created for payments due soon"
	case RuleBirthday:
		return strconv.Itoa(count) + " birthday notifications created"
	default:
		return strconv.Itoa(count) + " notifications created"
	}
}
