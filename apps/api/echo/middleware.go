package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/access"
	"github.com/trezcool/shule/core/user"
)

// gateMiddleware runs every navigation to `view` through the access gate.
// The decision is recomputed per request from the request's own session;
// nothing is cached across navigations.
func gateMiddleware(gate *access.Gate, view access.View) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := getContextSession(ctx)
			if err != nil {
				observeDecision(access.RedirectToLogin)
				return errUnauthorized
			}

			dec, err := gate.Evaluate(sess.Role, view)
			if err != nil {
				// unregistered view: programmer error, surfaces as a 500
				return errors.Wrap(err, "evaluating access")
			}
			observeDecision(dec.Outcome)

			if dec.Outcome != access.Render {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

// selfOrGateMiddleware admits the owner of the `:id` resource, or anyone the
// view's requirement admits. Used for user detail endpoints.
func selfOrGateMiddleware(gate *access.Gate, view access.View, svc user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := getContextSession(ctx)
			if err != nil {
				observeDecision(access.RedirectToLogin)
				return errUnauthorized
			}
			if sess.UserID == ctx.Param("id") {
				return next(ctx)
			}

			dec, err := gate.Evaluate(sess.Role, view)
			if err != nil {
				return errors.Wrap(err, "evaluating access")
			}
			observeDecision(dec.Outcome)

			if dec.Outcome != access.Render {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
