package support

import (
	"context"
	"net/mail"
	"time"

	"github.com/trezcool/watas/core"
)

type (
	Repository interface {
		CreateRequest(ctx context.Context, r Request) (Request, error)
		QueryRequests(ctx context.Context, ordering ...core.DBOrdering) ([]Request, error)
	}

	Service interface {
		Create(ctx context.Context, nr NewRequest) (Request, error)
		// Query lists requests, newest first unless orderings are given.
		Query(ctx context.Context, ordering ...core.DBOrdering) ([]Request, error)
	}

	service struct {
		conf    *core.Config
		repo    Repository
		mailSvc core.EmailService
	}
)

var (
	_ Service = (*service)(nil)

	// OrderingFields are the allowed ordering keys for Query.
	OrderingFields = map[string]bool{"created_at": true, "support_type": true}
)

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService) Service {
	return &service{conf: conf, repo: repo, mailSvc: mailSvc}
}

func (svc *service) Create(ctx context.Context, nr NewRequest) (Request, error) {
	r, err := svc.repo.CreateRequest(ctx, Request{
		SupportType: nr.SupportType,
		WhatsApp:    nr.WhatsApp,
		Phone:       nr.Phone,
		Description: nr.Description,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return Request{}, err
	}
	svc.notify(r)
	return r, nil
}

func (svc *service) Query(ctx context.Context, ordering ...core.DBOrdering) ([]Request, error) {
	valid := make([]core.DBOrdering, 0, len(ordering))
	for _, ord := range ordering {
		if OrderingFields[ord.Field] {
			valid = append(valid, ord)
		}
	}
	if len(valid) == 0 {
		valid = append(valid, core.DBOrdering{Field: "created_at"})
	}
	return svc.repo.QueryRequests(ctx, valid...)
}

// notify forwards the request to the support inbox, if one is configured.
func (svc *service) notify(r Request) {
	if svc.conf.SupportEmail == "" || svc.mailSvc == nil {
		return
	}
	to, err := mail.ParseAddress(svc.conf.SupportEmail)
	if err != nil {
		to = &mail.Address{Address: svc.conf.SupportEmail}
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{*to},
		Subject:      "Support request: " + r.SupportType,
		TemplateName: "support_request",
		TemplateData: notifyData{
			SupportType: r.SupportType,
			WhatsApp:    deref(r.WhatsApp),
			Phone:       deref(r.Phone),
			Description: r.Description,
		},
	})
}
