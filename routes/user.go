package routes

import (
	"errors"
	"strings"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"vehicle-inspection-server/models"
	"vehicle-inspection-server/storage"
	"vehicle-inspection-server/utils"
)

type RegisterUserInput struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Phone    string `json:"phone" validate:"max=20"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	Role     string `json:"role" validate:"required,oneof=DUENIO INSPECTOR ADMIN"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Register(ctx iris.Context) {
	var userInput RegisterUserInput
	if err := ctx.ReadJSON(&userInput); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing models.User
	exists, existsErr := getUserByEmail(&existing, userInput.Email)
	if existsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if exists {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	newUser := models.User{
		FullName: userInput.FullName,
		Email:    strings.ToLower(userInput.Email),
		Phone:    userInput.Phone,
		Password: hashedPassword,
		Role:     models.Role(userInput.Role),
	}
	if err := storage.DB.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.CreateEmailAlreadyRegistered(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(newUser)
}

func Login(ctx iris.Context) {
	var userInput LoginUserInput
	if err := ctx.ReadJSON(&userInput); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	const errorMsg = "invalid email or password"

	var user models.User
	exists, existsErr := getUserByEmail(&user, userInput.Email)
	if existsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if !exists {
		utils.CreateError(iris.StatusUnauthorized, errorMsg, ctx)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(userInput.Password)); err != nil {
		utils.CreateError(iris.StatusUnauthorized, errorMsg, ctx)
		return
	}

	tokenPair, tokenErr := utils.CreateTokenPair(&user)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"user":         user,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

// GetProfile returns the authenticated user's own record.
func GetProfile(ctx iris.Context) {
	claims := utils.Claims(ctx)

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(user)
}

// GetUser returns a user by id; only the user themselves or an ADMIN may
// read it.
func GetUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid user ID", ctx)
		return
	}

	claims := utils.Claims(ctx)
	if claims.Role != models.RoleAdmin && claims.ID != id {
		utils.CreateForbidden(ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(user)
}

func getUserByEmail(user *models.User, email string) (bool, error) {
	result := storage.DB.Where("email = ?", strings.ToLower(email)).First(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, result.Error
	}
	return true, nil
}

func hashAndSaltPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
