// Package http provides the HTTP server for the chat service.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/xiaot623/genai-chat/internal/service"
	v1 "github.com/xiaot623/genai-chat/internal/transport/http/v1"
)

// NewServer creates and configures the HTTP server. It serves the chat turn
// stream, chat management and the reports tool.
func NewServer(chatSvc *service.ChatService, reportsSvc *service.ReportsService) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	handler := v1.NewHandler(chatSvc, reportsSvc)
	handler.RegisterRoutes(e)

	return e
}
