package routes

import (
	"github.com/kataras/iris/v12"

	"vehicle-inspection-server/models"
	"vehicle-inspection-server/storage"
	"vehicle-inspection-server/utils"
)

// GetNotifications lists the requester's notifications, newest first.
func GetNotifications(ctx iris.Context) {
	claims := utils.Claims(ctx)

	var notifications []models.Notification
	if err := storage.DB.Where("user_id = ?", claims.ID).Order("created_at desc").Find(&notifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"notifications": notifications, "total": len(notifications)})
}

func MarkNotificationRead(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid notification ID", ctx)
		return
	}

	claims := utils.Claims(ctx)

	var notification models.Notification
	if err := storage.DB.Where("id = ? AND user_id = ?", id, claims.ID).First(&notification).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	notification.IsRead = true
	ctx.JSON(notification)
}
