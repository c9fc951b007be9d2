package utils

import (
	"errors"

	"github.com/kataras/iris/v12"

	"vehicle-inspection-server/services"
)

// CreateError writes a {"error": message} body with the given status.
func CreateError(statusCode int, message string, ctx iris.Context) {
	ctx.StopWithJSON(statusCode, iris.Map{"error": message})
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, "internal server error", ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "not found", ctx)
}

func CreateForbidden(ctx iris.Context) {
	CreateError(iris.StatusForbidden, "forbidden", ctx)
}

func CreateEmailAlreadyRegistered(ctx iris.Context) {
	CreateError(iris.StatusConflict, "email already registered", ctx)
}

// HandleValidationErrors reports a malformed or invalid request body.
func HandleValidationErrors(err error, ctx iris.Context) {
	CreateError(iris.StatusBadRequest, "invalid request body: "+err.Error(), ctx)
}

// RespondServiceError maps the service error taxonomy to HTTP statuses.
// Validation, state and transition failures are all client errors (400),
// authorization failures 403, missing entities 404 and uniqueness
// violations 409.
func RespondServiceError(err error, ctx iris.Context) {
	status := iris.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = iris.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrInvalidTransition):
		status = iris.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		status = iris.StatusConflict
	case errors.Is(err, services.ErrForbidden):
		status = iris.StatusForbidden
	}
	if status == iris.StatusInternalServerError {
		CreateInternalServerError(ctx)
		return
	}
	CreateError(status, err.Error(), ctx)
}
