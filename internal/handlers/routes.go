package handlers

import "github.com/gofiber/fiber/v2"

func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// RegisterRoutes mounts the JSON API, the download endpoints and the HTML pages.
func RegisterRoutes(app *fiber.App, auth *AuthHandler, files *FilesHandler, pages *PagesHandler) {
	app.Get("/health", Health)

	api := app.Group("/api")
	api.Post("/register", auth.Register)
	api.Post("/login", auth.Login)
	api.Post("/request-reset-password", auth.RequestPasswordReset)
	api.Post("/change-password", auth.ChangePassword)

	api.Post("/upload", files.Upload)
	api.Get("/files/:username", files.List)
	api.Get("/shared/:filename", files.Shared)
	api.Delete("/delete/:username/:filename", files.Delete)
	api.Put("/share/:username/:filename", files.Share)
	api.Get("/download/:filename", files.Download)

	app.Get("/", pages.Page("index.html"))
	app.Get("/login", pages.Page("login.html"))
	app.Get("/reset", pages.Page("reset-password.html"))
	app.Get("/change-password", pages.Page("change-password.html"))
	app.Get("/upload", pages.Page("upload.html"))
	if pages.PublicDir != "" {
		app.Static("/", pages.PublicDir)
	}
}
