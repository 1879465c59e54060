package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/admin"
)

type adminSessionApi struct {
	conf     *core.Config
	sessions *admin.Sessions
}

func registerAdminSessionAPI(g *echo.Group, isAdmin echo.MiddlewareFunc, conf *core.Config, sessions *admin.Sessions) {
	api := adminSessionApi{conf: conf, sessions: sessions}

	sg := g.Group("/admin/session")
	sg.POST("", api.login)
	sg.GET("", api.status)
	sg.DELETE("", api.logout, isAdmin)
}

type loginData struct {
	Password string `json:"password"`
}

func (api *adminSessionApi) login(ctx echo.Context) error {
	var data loginData
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to loginData")
	}
	if api.sessions == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server config error")
	}
	if err := api.sessions.CheckPassword(data.Password); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	token, _, err := api.sessions.Issue()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server config error").SetInternal(err)
	}
	ctx.SetCookie(newAdminCookie(token, int(api.sessions.TTL().Seconds()), api.secureCookies()))
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (api *adminSessionApi) status(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"authenticated": isAdminRequest(ctx, api.sessions)})
}

func (api *adminSessionApi) logout(ctx echo.Context) error {
	ctx.SetCookie(newAdminCookie("", -1, api.secureCookies()))
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (api *adminSessionApi) secureCookies() bool {
	return api.conf.Env == "PROD"
}
