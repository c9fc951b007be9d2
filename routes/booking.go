package routes

import (
	"github.com/kataras/iris/v12"

	"vehicle-inspection-server/services"
	"vehicle-inspection-server/storage"
	"vehicle-inspection-server/utils"
)

type AvailabilityInput struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type CreateBookingInput struct {
	Matricula string `json:"matricula" validate:"required,max=20"`
	Fecha     string `json:"fecha" validate:"required"` // YYYY-MM-DD HH:MM
}

type UpdateBookingStatusInput struct {
	Estado string `json:"estado" validate:"required,oneof=RESERVADO CONFIRMADO COMPLETADO CANCELADO"`
}

func newBookingService() *services.BookingService {
	return services.NewBookingService(storage.DB, services.DefaultSchedule())
}

// GetAvailability lists appointment slots for the requested window. The body
// is optional; with no dates the default horizon applies.
func GetAvailability(ctx iris.Context) {
	var input AvailabilityInput
	if ctx.GetContentLength() > 0 {
		if err := ctx.ReadJSON(&input); err != nil {
			utils.HandleValidationErrors(err, ctx)
			return
		}
	}

	result, err := newBookingService().Availability(input.StartDate, input.EndDate)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}
	ctx.JSON(result)
}

func CreateBooking(ctx iris.Context) {
	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := utils.Claims(ctx)
	booking, err := newBookingService().Reserve(input.Matricula, input.Fecha, claims.ID, claims.Role)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(booking)
}

func UpdateBookingStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid booking ID", ctx)
		return
	}

	var input UpdateBookingStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := utils.Claims(ctx)
	booking, err := newBookingService().UpdateStatus(id, input.Estado, claims.ID, claims.Role)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "booking_status_update", "booking", booking.ID, nil, booking)
	ctx.JSON(booking)
}

func GetBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid booking ID", ctx)
		return
	}

	claims := utils.Claims(ctx)
	booking, err := newBookingService().GetByID(id, claims.ID, claims.Role)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}
	ctx.JSON(booking)
}

func ListBookings(ctx iris.Context) {
	claims := utils.Claims(ctx)
	bookings, err := newBookingService().ListAll(claims.Role)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"turnos": bookings, "total": len(bookings)})
}

func ListBookingsByUser(ctx iris.Context) {
	userID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid user ID", ctx)
		return
	}

	claims := utils.Claims(ctx)
	bookings, err := newBookingService().ListByUser(userID, claims.ID, claims.Role)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"turnos": bookings, "total": len(bookings)})
}

func ListBookingsByVehicle(ctx iris.Context) {
	matricula := ctx.Params().Get("matricula")

	claims := utils.Claims(ctx)
	bookings, err := newBookingService().ListByVehicle(matricula, claims.ID, claims.Role)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"turnos": bookings, "total": len(bookings)})
}
