package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"vehicle-inspection-server/models"
)

// Claims extracts the access-token claims verified by the jwt middleware.
func Claims(ctx iris.Context) *AccessToken {
	return jwt.Get(ctx).(*AccessToken)
}

// AdminOnlyMiddleware rejects any requester without the ADMIN role.
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := Claims(ctx)
	if claims.Role != models.RoleAdmin {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "admin access required"})
		return
	}
	ctx.Next()
}

// InspectorOnlyMiddleware gates the inspection write endpoints.
func InspectorOnlyMiddleware(ctx iris.Context) {
	claims := Claims(ctx)
	if claims.Role != models.RoleInspector && claims.Role != models.RoleAdmin {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "inspector access required"})
		return
	}
	ctx.Next()
}
