package payment

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/identity"
	"github.com/trezcool/watas/core/profile"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrUnauthenticated  = errors.New("Unauthorized")
	ErrNoCallbackURL    = errors.New("Callback URL not configured. Set APP_URL or pass callbackBaseUrl.")
	ErrInvalidResponse  = errors.New("Invalid response from Paystack")
	ErrMissingReference = errors.New("Missing reference")
	ErrNotSuccessful    = errors.New("Payment was not successful")
	ErrInvalidMetadata  = errors.New("Invalid transaction metadata")
	ErrActivationFailed = errors.New("Failed to activate PRO")

	errNotConfigured = "Paystack is not configured"
)

type (
	// Gateway is the hosted payment gateway's checkout & verification API.
	Gateway interface {
		Configured() bool
		Initialize(ctx context.Context, req InitRequest) (InitResult, error)
		Verify(ctx context.Context, reference string) (Transaction, error)
	}

	// ProSetter flips a profile's PRO flag.
	ProSetter interface {
		SetPro(ctx context.Context, id string, isPro bool) (profile.Profile, error)
	}

	Service interface {
		// Initialize starts a PRO checkout for id. callbackBase overrides the configured app URL.
		Initialize(ctx context.Context, id identity.Identity, callbackBase string) (InitResult, error)
		// Verify confirms a transaction with the gateway, then activates PRO for the user in its metadata.
		Verify(ctx context.Context, reference string) error
	}

	service struct {
		conf    *core.Config
		gateway Gateway
		pro     ProSetter
		logger  core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(conf *core.Config, gateway Gateway, pro ProSetter, logger core.Logger) Service {
	return &service{conf: conf, gateway: gateway, pro: pro, logger: logger}
}

// Reference binds a transaction to the identity id & the current time.
func Reference(identityID string, at time.Time) string {
	return refPrefix + strings.ReplaceAll(identityID, "-", "") + "_" + strconv.FormatInt(at.UnixMilli(), 10)
}

func (svc *service) Initialize(ctx context.Context, id identity.Identity, callbackBase string) (InitResult, error) {
	if id.ID == "" || id.Email == "" {
		return InitResult{}, ErrUnauthenticated
	}
	if svc.gateway == nil || !svc.gateway.Configured() || svc.conf.Paystack.ProAmount == "" {
		return InitResult{}, core.NotConfigured(errNotConfigured)
	}

	base := core.CleanString(callbackBase)
	if base == "" {
		base = svc.conf.AppURL
	}
	if base == "" {
		return InitResult{}, ErrNoCallbackURL
	}

	ref := Reference(id.ID, NowFunc())
	res, err := svc.gateway.Initialize(ctx, InitRequest{
		Email:       id.Email,
		Amount:      svc.conf.Paystack.ProAmount,
		Reference:   ref,
		CallbackURL: strings.TrimSuffix(base, "/") + "/pro?reference=" + ref,
		Metadata:    map[string]string{"user_id": id.ID},
	})
	if err != nil {
		return InitResult{}, err
	}
	if res.AuthorizationURL == "" {
		return InitResult{}, ErrInvalidResponse
	}
	return res, nil
}

func (svc *service) Verify(ctx context.Context, reference string) error {
	reference = core.CleanString(reference)
	if reference == "" {
		return ErrMissingReference
	}
	if svc.gateway == nil || !svc.gateway.Configured() {
		return core.NotConfigured(errNotConfigured)
	}

	tx, err := svc.gateway.Verify(ctx, reference)
	if err != nil {
		return err
	}
	if tx.Status != StatusSuccess {
		return ErrNotSuccessful
	}
	userID := UserIDFromMetadata(tx.Metadata)
	if userID == "" {
		return ErrInvalidMetadata
	}

	if _, err := svc.pro.SetPro(ctx, userID, true); err != nil {
		svc.logger.Error("activating PRO", pkgerrors.Wrap(err, "setting is_pro"), "user_id", userID, "reference", reference)
		return ErrActivationFailed
	}
	return nil
}
