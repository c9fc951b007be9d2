package routes

import (
	"github.com/kataras/iris/v12"

	"vehicle-inspection-server/services"
	"vehicle-inspection-server/storage"
	"vehicle-inspection-server/utils"
)

type ChequeoItemInput struct {
	Descripcion string `json:"descripcion" validate:"required,max=200"`
	Puntuacion  int    `json:"puntuacion" validate:"required,gte=1,lte=10"`
}

// CreateInspectionInput opens an inspection. With chequeos supplied (exactly
// 8) the inspection is scored and closed in the same request; without them it
// opens PENDIENTE.
type CreateInspectionInput struct {
	TurnoID     uint               `json:"turnoId" validate:"required"`
	InspectorID uint               `json:"inspectorId" validate:"required"`
	Chequeos    []ChequeoItemInput `json:"chequeos" validate:"omitempty,len=8,dive"`
	Observacion string             `json:"observacion" validate:"omitempty,max=500"`
}

type RegisterChequeosInput struct {
	Chequeos []ChequeoItemInput `json:"chequeos" validate:"required,len=8,dive"`
}

type CloseInspectionInput struct {
	Observacion string `json:"observacion" validate:"omitempty,max=500"`
}

func toChecklist(items []ChequeoItemInput) []services.ChequeoInput {
	out := make([]services.ChequeoInput, 0, len(items))
	for _, item := range items {
		out = append(out, services.ChequeoInput{Descripcion: item.Descripcion, Puntuacion: item.Puntuacion})
	}
	return out
}

func CreateInspection(ctx iris.Context) {
	var input CreateInspectionInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	svc := services.NewInspectionService(storage.DB)
	inspection, err := svc.Open(input.TurnoID, input.InspectorID, toChecklist(input.Chequeos), input.Observacion)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}

	if inspection.Result != nil {
		utils.Audit(ctx, "inspection_close", "inspection", inspection.ID, nil, inspection)
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(inspection)
}

func RegisterChequeos(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid inspection ID", ctx)
		return
	}

	var input RegisterChequeosInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	svc := services.NewInspectionService(storage.DB)
	inspection, err := svc.RegisterChequeos(id, toChecklist(input.Chequeos))
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}
	ctx.JSON(inspection)
}

// CloseInspection computes the verdict and cascades it to the vehicle and
// the booking.
func CloseInspection(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid inspection ID", ctx)
		return
	}

	var input CloseInspectionInput
	if ctx.GetContentLength() > 0 {
		if err := ctx.ReadJSON(&input); err != nil {
			utils.HandleValidationErrors(err, ctx)
			return
		}
	}

	svc := services.NewInspectionService(storage.DB)
	inspection, err := svc.Close(id, input.Observacion)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "inspection_close", "inspection", inspection.ID, nil, inspection)
	ctx.JSON(inspection)
}

func GetInspection(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid inspection ID", ctx)
		return
	}

	claims := utils.Claims(ctx)
	svc := services.NewInspectionService(storage.DB)
	inspection, err := svc.GetByID(id, claims.ID, claims.Role)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}
	ctx.JSON(inspection)
}

func ListInspections(ctx iris.Context) {
	claims := utils.Claims(ctx)
	svc := services.NewInspectionService(storage.DB)
	inspections, err := svc.ListAll(claims.Role)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"inspecciones": inspections, "total": len(inspections)})
}

func ListInspectionsByVehicle(ctx iris.Context) {
	matricula := ctx.Params().Get("matricula")

	claims := utils.Claims(ctx)
	svc := services.NewInspectionService(storage.DB)
	inspections, err := svc.ListByVehicle(matricula, claims.ID, claims.Role)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"inspecciones": inspections, "total": len(inspections)})
}

func ListInspectionsByInspector(ctx iris.Context) {
	inspectorID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid inspector ID", ctx)
		return
	}

	claims := utils.Claims(ctx)
	svc := services.NewInspectionService(storage.DB)
	inspections, err := svc.ListByInspector(inspectorID, claims.ID, claims.Role)
	if err != nil {
		utils.RespondServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"inspecciones": inspections, "total": len(inspections)})
}
