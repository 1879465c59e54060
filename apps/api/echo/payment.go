package echoapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/payment"
)

type paymentApi struct {
	svc    payment.Service
	logger core.Logger
}

func registerPaymentAPI(g *echo.Group, authed echo.MiddlewareFunc, svc payment.Service, logger core.Logger) {
	api := paymentApi{svc: svc, logger: logger}

	pg := g.Group("/paystack")
	pg.POST("/initialize", api.initialize, authed)
	pg.GET("/verify", api.verify)
}

type initializeData struct {
	CallbackBaseURL string `json:"callbackBaseUrl"`
}

func (api *paymentApi) initialize(ctx echo.Context) error {
	var data initializeData
	if err := ctx.Bind(&data); err != nil {
		return pkgerrors.Wrap(err, "binding to initializeData")
	}

	id, _ := getContextIdentity(ctx)
	res, err := api.svc.Initialize(ctx.Request().Context(), id, data.CallbackBaseURL)
	if err != nil {
		var gwErr *payment.GatewayError
		switch {
		case core.IsNotConfigured(err):
			return err
		case errors.Is(err, payment.ErrUnauthenticated):
			return errUnauthorized
		case errors.Is(err, payment.ErrNoCallbackURL):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.As(err, &gwErr):
			api.logger.Error("paystack initialize", err, id)
			return echo.NewHTTPError(http.StatusBadGateway, gatewayMessage(gwErr, "Failed to initialize payment"))
		case errors.Is(err, payment.ErrInvalidResponse):
			api.logger.Error("paystack initialize", err, id)
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		return pkgerrors.Wrap(err, "initializing payment")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *paymentApi) verify(ctx echo.Context) error {
	reference := ctx.QueryParam("reference")
	if err := api.svc.Verify(ctx.Request().Context(), reference); err != nil {
		var gwErr *payment.GatewayError
		switch {
		case core.IsNotConfigured(err):
			return err
		case errors.As(err, &gwErr):
			api.logger.Warn("paystack verify", err, "reference", reference)
			return echo.NewHTTPError(http.StatusBadRequest, gatewayMessage(gwErr, "Verification failed"))
		case errors.Is(err, payment.ErrMissingReference),
			errors.Is(err, payment.ErrNotSuccessful),
			errors.Is(err, payment.ErrInvalidMetadata):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, payment.ErrActivationFailed):
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return pkgerrors.Wrap(err, "verifying payment")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

func gatewayMessage(err *payment.GatewayError, fallback string) string {
	if err.Message != "" {
		return err.Message
	}
	return fallback
}
