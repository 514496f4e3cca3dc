// Package rbac enforces the dashboard's two-role split. There are exactly
// two subjects - admin and employee - so the model and policies live in
// code instead of external files; self-service row scoping is applied
// separately inside the dashboard handlers.
package rbac

import (
	"net/http"

	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/response"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch(r.obj, p.obj) && keyMatch(r.act, p.act)
`

// NewEnforcer builds the in-memory enforcer with the static policy set:
// admins may do everything, employees everything except the audit trail.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	policies := [][]string{
		{"admin", "*", "*"},
		{"employee", "summary", "read"},
		{"employee", "activity", "read"},
		{"employee", "entries", "read"},
		{"employee", "entries", "adjust"},
		{"employee", "export", "read"},
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Authorize gates a route on the session role set by the session guard.
func Authorize(e *casbin.Enforcer, obj, act string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("session_role")
		ok, err := e.Enforce(role, obj, act)
		if err != nil || !ok {
			response.AbortError(c, http.StatusForbidden, "Forbidden")
			return
		}
		c.Next()
	}
}
