package controller

import (
	"mediaarchive/src/response"
	"mediaarchive/src/service"

	"github.com/gofiber/fiber/v2"
)

type HealthCheckController struct {
	HealthCheckService service.HealthCheckService
}

func NewHealthCheckController(healthCheckService service.HealthCheckService) *HealthCheckController {
	return &HealthCheckController{
		HealthCheckService: healthCheckService,
	}
}

// @Tags         Health
// @Summary      Health Check
// @Description  Check the status of the database, Redis and the response cache
// @Produce      json
// @Router       /health [get]
// @Success      200  {object}  response.HealthCheckResponse
// @Failure      500  {object}  response.HealthCheckResponse
func (h *HealthCheckController) Check(c *fiber.Ctx) error {
	results := h.HealthCheckService.Check(c.UserContext())

	isHealthy := true
	for _, r := range results {
		if !r.IsUp {
			isHealthy = false
			break
		}
	}

	statusCode := fiber.StatusOK
	status := "success"
	if !isHealthy {
		statusCode = fiber.StatusInternalServerError
		status = "error"
	}

	return c.Status(statusCode).JSON(response.HealthCheckResponse{
		Status:    status,
		Message:   "Health check completed",
		Code:      statusCode,
		IsHealthy: isHealthy,
		Result:    results,
	})
}
