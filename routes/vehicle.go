package routes

import (
	"github.com/kataras/iris/v12"

	"vehicle-inspection-server/services"
	"vehicle-inspection-server/storage"
	"vehicle-inspection-server/utils"
)

type CreateVehicleInput struct {
	Matricula string `json:"matricula" validate:"required,max=20"`
	Marca     string `json:"marca" validate:"required,max=50"`
	Modelo    string `json:"modelo" validate:"required,max=50"`
	Anio      int    `json:"anio" validate:"required,gte=1900,lte=2100"`
}

type UpdateVehicleInput struct {
	Marca  *string `json:"marca" validate:"omitempty,max=50"`
	Modelo *string `json:"modelo" validate:"omitempty,max=50"`
	Anio   *int    `json:"anio" validate:"omitempty,gte=1900,lte=2100"`
}

func CreateVehicle(ctx iris.Context) {
	var input CreateVehicleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := utils.Claims(ctx)
	svc := services.NewVehicleService(storage.DB)
	vehicle, err := svc.Create(services.VehicleInput{
		Plate: input.Matricula,
		Make:  input.Marca,
		Model: input.Modelo,
		Year:  input.Anio,
	}, claims.ID)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(vehicle)
}

func GetVehicle(ctx iris.Context) {
	matricula := ctx.Params().Get("matricula")
	claims := utils.Claims(ctx)

	svc := services.NewVehicleService(storage.DB)
	vehicle, err := svc.GetByPlate(matricula, claims.ID, claims.Role)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}
	ctx.JSON(vehicle)
}

func ListVehicles(ctx iris.Context) {
	claims := utils.Claims(ctx)

	svc := services.NewVehicleService(storage.DB)
	vehicles, err := svc.List(claims.ID, claims.Role)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"vehiculos": vehicles, "total": len(vehicles)})
}

func UpdateVehicle(ctx iris.Context) {
	matricula := ctx.Params().Get("matricula")

	var input UpdateVehicleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := utils.Claims(ctx)
	svc := services.NewVehicleService(storage.DB)
	vehicle, err := svc.Update(matricula, services.VehiclePatch{
		Make:  input.Marca,
		Model: input.Modelo,
		Year:  input.Anio,
	}, claims.ID, claims.Role)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}
	ctx.JSON(vehicle)
}

// DeactivateVehicle soft deletes: the vehicle goes INACTIVO and stops
// accepting bookings and updates.
func DeactivateVehicle(ctx iris.Context) {
	matricula := ctx.Params().Get("matricula")
	claims := utils.Claims(ctx)

	svc := services.NewVehicleService(storage.DB)
	before, err := svc.GetByPlate(matricula, claims.ID, claims.Role)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}

	vehicle, err := svc.Deactivate(matricula, claims.ID, claims.Role)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "vehicle_deactivate", "vehicle", vehicle.ID, before, vehicle)
	ctx.JSON(vehicle)
}
