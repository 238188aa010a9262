// AngelaMos | 2026
// repository.go

package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

// Every read and write below takes a recipient; "" lifts the restriction
// and is only passed for admins.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	// CreateIfAbsent inserts n unless a row with the same daily key exists.
	// It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, n *Notification) (bool, error)
	GetByID(ctx context.Context, id, recipient string) (*Notification, error)
	List(ctx context.Context, params ListParams) ([]Notification, int, error)
	MarkRead(ctx context.Context, id, recipient string, at time.Time) (*Notification, error)
	MarkAllRead(ctx context.Context, recipient string, at time.Time) (int64, error)
	Delete(ctx context.Context, id, recipient string) error
	Stats(ctx context.Context, recipient string) (*Stats, error)
}

type ListParams struct {
	core.PageParams
	Recipient string
	Type      Type
	IsRead    *bool
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const notificationColumns = `id, user_id, student_id, type, title, message,
		       is_read, read_at, date_bucket, created_at`

func (r *repository) Create(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (
			id, user_id, student_id, type, title, message, date_bucket
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return core.GetOne(ctx, r.db, &n.CreatedAt, "create notification", query,
		n.ID, n.UserID, n.StudentID, n.Type, n.Title, n.Message, n.DateBucket,
	)
}

func (r *repository) CreateIfAbsent(ctx context.Context, n *Notification) (bool, error) {
	query := `
		INSERT INTO notifications (
			id, user_id, student_id, type, title, message, date_bucket
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (type, student_id, user_id, date_bucket)
			WHERE student_id IS NOT NULL
			DO NOTHING
		RETURNING created_at`

	err := core.GetOne(ctx, r.db, &n.CreatedAt, "create notification", query,
		n.ID, n.UserID, n.StudentID, n.Type, n.Title, n.Message, n.DateBucket,
	)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id, recipient string,
) (*Notification, error) {
	where := core.NewWhere().
		Add("id = $%d", id).
		AddIf(recipient != "", "user_id = $%d", recipient)

	query := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE ` + where.String()

	var n Notification
	if err := core.GetOne(ctx, r.db, &n, "get notification", query, where.Args()...); err != nil {
		return nil, err
	}

	return &n, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Notification, int, error) {
	params.Normalize()

	where := core.NewWhere().
		AddIf(params.Recipient != "", "user_id = $%d", params.Recipient).
		AddIf(params.Type != "", "type = $%d", params.Type)
	if params.IsRead != nil {
		where.Add("is_read = $%d", *params.IsRead)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM notifications WHERE " + where.String()
	if err := core.GetOne(ctx, r.db, &total, "count notifications", countQuery, where.Args()...); err != nil {
		return nil, 0, err
	}

	next := where.Next()
	query := fmt.Sprintf(`SELECT `+notificationColumns+`
		FROM notifications
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		where.String(), next, next+1)

	args := append(where.Args(), params.Limit, params.Offset())

	var items []Notification
	if err := core.SelectAll(ctx, r.db, &items, "list notifications", query, args...); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *repository) MarkRead(
	ctx context.Context,
	id, recipient string,
	at time.Time,
) (*Notification, error) {
	where := core.NewWhere().
		Add("id = $%d", id).
		AddIf(recipient != "", "user_id = $%d", recipient)

	next := where.Next()
	query := fmt.Sprintf(`
		UPDATE notifications
		SET is_read = TRUE, read_at = COALESCE(read_at, $%d)
		WHERE %s
		RETURNING `+notificationColumns,
		next, where.String())

	args := append(where.Args(), at)

	var n Notification
	if err := core.GetOne(ctx, r.db, &n, "mark notification read", query, args...); err != nil {
		return nil, err
	}

	return &n, nil
}

func (r *repository) MarkAllRead(
	ctx context.Context,
	recipient string,
	at time.Time,
) (int64, error) {
	where := core.NewWhere("is_read = FALSE").
		AddIf(recipient != "", "user_id = $%d", recipient)

	query := fmt.Sprintf(`
		UPDATE notifications
		SET is_read = TRUE, read_at = $%d
		WHERE %s`,
		where.Next(), where.String())

	return core.ExecCount(ctx, r.db, "mark all read", query, append(where.Args(), at)...)
}

func (r *repository) Delete(ctx context.Context, id, recipient string) error {
	where := core.NewWhere().
		Add("id = $%d", id).
		AddIf(recipient != "", "user_id = $%d", recipient)

	return core.ExecOne(ctx, r.db, "delete notification",
		"DELETE FROM notifications WHERE "+where.String(),
		where.Args()...,
	)
}

func (r *repository) Stats(ctx context.Context, recipient string) (*Stats, error) {
	where := core.NewWhere().
		AddIf(recipient != "", "user_id = $%d", recipient)

	query := `
		SELECT type,
		       COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE NOT is_read) AS unread
		FROM notifications
		WHERE ` + where.String() + `
		GROUP BY type`

	var rows []struct {
		Type   Type `db:"type"`
		Total  int  `db:"total"`
		Unread int  `db:"unread"`
	}
	if err := core.SelectAll(ctx, r.db, &rows, "notification stats", query, where.Args()...); err != nil {
		return nil, err
	}

	stats := &Stats{ByType: make(map[Type]int, len(rows))}
	for _, row := range rows {
		stats.Total += row.Total
		stats.Unread += row.Unread
		stats.ByType[row.Type] = row.Total
		if row.Type == TypePaymentOverdue {
			stats.HighPriority = row.Unread
		}
	}

	return stats, nil
}
