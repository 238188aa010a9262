// AngelaMos | 2026
// service.go

package payment

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/gym-crm/internal/core"
	mailer "github.com/carterperez-dev/gym-crm/internal/mail"
	"github.com/carterperez-dev/gym-crm/internal/scope"
)

// ErrMailDisabled is returned by SendChargeEmail when no mail provider is
// configured.
var ErrMailDisabled = errors.New("mail delivery disabled")

// StudentOwners resolves which instructor owns a student.
type StudentOwners interface {
	InstructorOf(ctx context.Context, studentID string) (string, error)
}

// OverdueSweep moves the caller's past-due PENDING payments to OVERDUE
// and reports how many it moved.
type OverdueSweep func(ctx context.Context, caller scope.Caller) (int64, error)

type Service struct {
	repo   Repository
	owners StudentOwners
	now    func() time.Time
	sweep  OverdueSweep
	sender mailer.Sender
}

type Option func(*Service)

func WithOverdueSweep(sweep OverdueSweep) Option {
	return func(s *Service) { s.sweep = sweep }
}

// WithMail enables charge e-mails. A nil sender leaves them disabled.
func WithMail(sender mailer.Sender) Option {
	return func(s *Service) { s.sender = sender }
}

func NewService(repo Repository, owners StudentOwners, opts ...Option) *Service {
	s := &Service{repo: repo, owners: owners, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(
	ctx context.Context,
	caller scope.Caller,
	params ListPaymentsParams,
) ([]Payment, int, error) {
	params.Owner = caller.OwnerFilter()
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, caller scope.Caller, id string) (*Payment, error) {
	return s.repo.GetByID(ctx, id, caller.OwnerFilter())
}

// Create always opens the payment as PENDING.
func (s *Service) Create(
	ctx context.Context,
	caller scope.Caller,
	req CreatePaymentRequest,
) (*Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive: %w", core.ErrInvalidInput)
	}

	owner, err := s.owners.InstructorOf(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if err := caller.CheckOwnership(owner); err != nil {
		return nil, err
	}

	p := &Payment{
		ID:           uuid.New().String(),
		StudentID:    req.StudentID,
		InstructorID: owner,
		Amount:       req.Amount.Round(2),
		DueDate:      req.DueDate,
		Status:       StatusPending,
		Type:         req.Type,
		Description:  req.Description,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, p.ID, "")
}

func (s *Service) Update(
	ctx context.Context,
	caller scope.Caller,
	id string,
	req UpdatePaymentRequest,
) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if err := caller.CheckOwnership(p.InstructorID); err != nil {
		return nil, err
	}

	if err := s.apply(p, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// apply merges req into p. Status changes follow CanTransition. A PAID
// payment always carries a paid date and any other status drops it.
func (s *Service) apply(p *Payment, req UpdatePaymentRequest) error {
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return fmt.Errorf("amount must be positive: %w", core.ErrInvalidInput)
		}
		p.Amount = req.Amount.Round(2)
	}
	if req.DueDate != nil {
		p.DueDate = *req.DueDate
	}
	if req.Type != nil {
		p.Type = *req.Type
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Status != nil {
		if !CanTransition(p.Status, *req.Status) {
			return fmt.Errorf(
				"payment cannot move from %s to %s: %w",
				p.Status, *req.Status, core.ErrInvalidInput,
			)
		}
		p.Status = *req.Status
	}
	if req.PaidDate != nil {
		paid := *req.PaidDate
		p.PaidDate = &paid
	}

	switch {
	case p.Status == StatusPaid && p.PaidDate == nil:
		now := s.now()
		p.PaidDate = &now
	case p.Status != StatusPaid:
		p.PaidDate = nil
	}

	return nil
}

func (s *Service) Delete(ctx context.Context, caller scope.Caller, id string) error {
	p, err := s.repo.GetByID(ctx, id, "")
	if err != nil {
		return err
	}
	if err := caller.CheckOwnership(p.InstructorID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// MarkOverdue runs the overdue sweep on demand, limited to the caller's
// students unless the caller is an admin.
func (s *Service) MarkOverdue(ctx context.Context, caller scope.Caller) (int64, error) {
	if s.sweep == nil {
		return 0, errors.New("overdue sweep not configured")
	}
	return s.sweep(ctx, caller)
}

// SendChargeEmail reminds a student of an open payment by e-mail.
func (s *Service) SendChargeEmail(ctx context.Context, caller scope.Caller, id string) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if err := caller.CheckOwnership(p.InstructorID); err != nil {
		return nil, err
	}
	if p.Status == StatusPaid || p.Status == StatusCancelled {
		return nil, fmt.Errorf("payment is %s: %w", p.Status, core.ErrInvalidInput)
	}
	if s.sender == nil {
		return nil, ErrMailDisabled
	}

	err = s.sender.Send(ctx, mailer.Message{
		To:      mail.Address{Name: p.StudentName, Address: p.StudentEmail},
		Subject: "Cobrança de pagamento - " + p.StudentName,
		Text:    chargeText(p),
	})
	if err != nil {
		return nil, fmt.Errorf("send charge email: %w", err)
	}

	return p, nil
}

// chargeText renders the reminder in pt-BR. Due dates are calendar dates
// and are printed without a zone conversion.
func chargeText(p *Payment) string {
	amount := strings.Replace(p.Amount.StringFixed(2), ".", ",", 1)

	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s,\n\n", p.StudentName)
	b.WriteString("Este é um lembrete de cobrança referente ao seu pagamento.\n\n")
	fmt.Fprintf(&b, "Valor: R$ %s\n", amount)
	fmt.Fprintf(&b, "Vencimento: %s\n", p.DueDate.Format("02/01/2006"))
	if p.Description != nil && *p.Description != "" {
		fmt.Fprintf(&b, "Descrição: %s\n", *p.Description)
	}
	b.WriteString("\nPor favor, realize o pagamento até a data de vencimento.\n\nObrigado!\n")
	return b.String()
}
