package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/access"
)

// viewApi serves the role-scoped dashboard views. Page content itself lives
// in the frontend; these endpoints only resolve whether and which view to
// mount, which is the gate's whole job.
type viewApi struct {
	gate *access.Gate
}

func registerViewAPI(g *echo.Group, jwt echo.MiddlewareFunc, gate *access.Gate) {
	api := viewApi{gate: gate}

	vg := g.Group("/views", jwt)

	// landing at the application root: resolve the role's default view
	vg.GET("", api.root)

	// one route per registered view, each behind the gate
	for _, view := range gate.Policy().Views() {
		view := view
		vg.GET("/"+string(view), api.render(view), gateMiddleware(gate, view))
	}
}

// root resolves the default dashboard for the authenticated role.
func (api *viewApi) root(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		observeDecision(access.RedirectToLogin)
		return errUnauthorized
	}

	dec, err := api.gate.Evaluate(sess.Role, api.gate.DefaultView(sess.Role))
	if err != nil {
		return errors.Wrap(err, "evaluating default view")
	}
	observeDecision(dec.Outcome)
	if dec.Outcome != access.Render {
		return errHttpForbidden
	}

	return ctx.JSON(http.StatusOK, ViewResponse{
		View:     string(dec.View),
		Role:     string(sess.Role),
		SchoolID: sess.SchoolID,
	})
}

func (api *viewApi) render(view access.View) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		sess, err := getContextSession(ctx)
		if err != nil {
			return errUnauthorized
		}
		return ctx.JSON(http.StatusOK, ViewResponse{
			View:     string(view),
			Role:     string(sess.Role),
			SchoolID: sess.SchoolID,
		})
	}
}
