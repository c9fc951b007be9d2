package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"vehicle-inspection-server/routes"
	"vehicle-inspection-server/storage"
	"vehicle-inspection-server/utils"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		godotenv.Load()
	}

	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Get("/profile", accessTokenVerifierMiddleware, routes.GetProfile)
		user.Get("/{id:uint}", accessTokenVerifierMiddleware, routes.GetUser)
	}

	vehicle := app.Party("/api/vehicle", accessTokenVerifierMiddleware)
	{
		vehicle.Post("/", routes.CreateVehicle)
		vehicle.Get("/", routes.ListVehicles)
		vehicle.Get("/{matricula}", routes.GetVehicle)
		vehicle.Patch("/{matricula}", routes.UpdateVehicle)
		vehicle.Delete("/{matricula}", routes.DeactivateVehicle)
	}

	bookings := app.Party("/api/bookings", accessTokenVerifierMiddleware)
	{
		bookings.Post("/availability", routes.GetAvailability)
		bookings.Post("/", routes.CreateBooking)
		bookings.Get("/", utils.AdminOnlyMiddleware, routes.ListBookings)
		bookings.Get("/{id:uint}", routes.GetBooking)
		bookings.Put("/{id:uint}", routes.UpdateBookingStatus)
		bookings.Get("/user/{id:uint}", routes.ListBookingsByUser)
		bookings.Get("/vehicle/{matricula}", routes.ListBookingsByVehicle)
	}

	inspections := app.Party("/api/inspections", accessTokenVerifierMiddleware)
	{
		inspections.Post("/", utils.InspectorOnlyMiddleware, routes.CreateInspection)
		inspections.Post("/{id:uint}/chequeos", utils.InspectorOnlyMiddleware, routes.RegisterChequeos)
		inspections.Patch("/{id:uint}", utils.InspectorOnlyMiddleware, routes.CloseInspection)
		inspections.Get("/", utils.AdminOnlyMiddleware, routes.ListInspections)
		inspections.Get("/{id:uint}", routes.GetInspection)
		inspections.Get("/inspector/{id:uint}", routes.ListInspectionsByInspector)
		inspections.Get("/vehicle/{matricula}", routes.ListInspectionsByVehicle)
	}

	notifications := app.Party("/api/notifications", accessTokenVerifierMiddleware)
	{
		notifications.Get("/", routes.GetNotifications)
		notifications.Patch("/{id:uint}/read", routes.MarkNotificationRead)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
