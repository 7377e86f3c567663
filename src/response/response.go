package response

import (
	"time"

	"mediaarchive/src/model"

	"github.com/gofiber/fiber/v2"
)

type Common struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorDetails struct {
	Code    int         `json:"code"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

type Message struct {
	Message string `json:"message"`
}

type CollectionSummary struct {
	model.Collection
	ItemCount int `json:"itemCount"`
}

type CollectionWithItems struct {
	model.Collection
	Items []model.ArchiveItem `json:"items"`
}

type CollectionList struct {
	Message     string              `json:"message"`
	Count       int                 `json:"count"`
	Collections []CollectionSummary `json:"collections"`
}

type CollectionDetail struct {
	Message    string              `json:"message"`
	Collection CollectionWithItems `json:"collection"`
}

type CollectionCreated struct {
	Message    string              `json:"message"`
	Collection CollectionWithItems `json:"collection"`
}

type ArchiveItemWithRelations struct {
	model.ArchiveItem
	Category    *model.Category    `json:"category"`
	Collections []model.Collection `json:"collections"`
}

type ArchiveItemList struct {
	Message      string              `json:"message"`
	Count        int                 `json:"count"`
	ArchiveItems []model.ArchiveItem `json:"archiveItems"`
}

type ArchiveItemDetail struct {
	Message     string                   `json:"message"`
	ArchiveItem ArchiveItemWithRelations `json:"archiveItem"`
}

type ItemSaved struct {
	Message string            `json:"message"`
	Item    model.ArchiveItem `json:"item"`
	SavedTo string            `json:"savedTo,omitempty"`
}

type DraftList struct {
	Message string              `json:"message"`
	Count   int                 `json:"count"`
	Drafts  []model.ArchiveItem `json:"drafts"`
}

type Draft struct {
	Message string            `json:"message"`
	Draft   model.ArchiveItem `json:"draft"`
}

type CategoryList struct {
	Message    string           `json:"message"`
	Count      int              `json:"count"`
	Categories []model.Category `json:"categories"`
}

type Category struct {
	Message  string         `json:"message"`
	Category model.Category `json:"category"`
}

type UserInfo struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	Role     string `json:"role"`
}

type TokenExpires struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type Login struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
	User    UserInfo  `json:"user"`
}

type Signup struct {
	Message string   `json:"message"`
	User    UserInfo `json:"user"`
}

type HealthCheck struct {
	Name    string  `json:"name"`
	Status  string  `json:"status"`
	IsUp    bool    `json:"is_up"`
	Message *string `json:"message,omitempty"`
}

type HealthCheckResponse struct {
	Status    string        `json:"status"`
	Message   string        `json:"message"`
	Code      int           `json:"code"`
	IsHealthy bool          `json:"is_healthy"`
	Result    []HealthCheck `json:"result"`
}

func Error(c *fiber.Ctx, statusCode int, message string, details interface{}) error {
	return c.Status(statusCode).JSON(ErrorDetails{
		Code:    statusCode,
		Status:  "error",
		Message: message,
		Errors:  details,
	})
}
