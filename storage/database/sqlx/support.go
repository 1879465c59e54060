package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/support"
)

type supportRow struct {
	ID          string      `db:"id"`
	SupportType string      `db:"support_type"`
	WhatsApp    null.String `db:"whatsapp"`
	Phone       null.String `db:"phone"`
	Description string      `db:"description"`
	CreatedAt   time.Time   `db:"created_at"`
}

func (r supportRow) request() support.Request {
	return support.Request{
		ID:          r.ID,
		SupportType: r.SupportType,
		WhatsApp:    r.WhatsApp.Ptr(),
		Phone:       r.Phone.Ptr(),
		Description: r.Description,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

type supportRepository struct {
	db *sqlx.DB
}

var _ support.Repository = (*supportRepository)(nil)

func NewSupportRepository(db *sqlx.DB) support.Repository {
	return &supportRepository{db: db}
}

func (repo *supportRepository) CreateRequest(ctx context.Context, r support.Request) (support.Request, error) {
	r.ID = newID()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO support_requests (id, support_type, whatsapp, phone, description, created_at)
		VALUES (:id, :support_type, :whatsapp, :phone, :description, :created_at)`,
		supportRow{
			ID:          r.ID,
			SupportType: r.SupportType,
			WhatsApp:    null.StringFromPtr(r.WhatsApp),
			Phone:       null.StringFromPtr(r.Phone),
			Description: r.Description,
			CreatedAt:   r.CreatedAt,
		})
	if err != nil {
		return support.Request{}, errors.Wrap(err, "creating support request")
	}
	return r, nil
}

// QueryRequests only accepts orderings already checked against support.OrderingFields.
func (repo *supportRepository) QueryRequests(ctx context.Context, ordering ...core.DBOrdering) ([]support.Request, error) {
	query := `SELECT * FROM support_requests`
	if len(ordering) > 0 {
		clauses := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			if support.OrderingFields[ord.Field] {
				clauses = append(clauses, ord.String())
			}
		}
		if len(clauses) > 0 {
			query += ` ORDER BY ` + strings.Join(clauses, ", ")
		}
	}

	var rows []supportRow
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying support requests")
	}
	res := make([]support.Request, 0, len(rows))
	for _, r := range rows {
		res = append(res, r.request())
	}
	return res, nil
}
