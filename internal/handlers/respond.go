package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"directchat/internal/middleware"
	"directchat/internal/observability"
	"directchat/internal/services"
)

const msgInvalidJSON = "Invalid JSON body"

func respondOK(c *gin.Context, status int, body gin.H) {
	body["success"] = true
	c.JSON(status, body)
}

// respondError converts a service error into the failure shape. Store
// failures are logged and reported with the operation's generic message.
func respondError(c *gin.Context, operation string, err error) {
	kind := services.KindOf(err)
	observability.IncRequestFailure(operation, kind.String())
	if kind == services.KindStore {
		log.Printf("%s failed request_id=%s: %v", operation, middleware.RequestIDFromContext(c), err)
	}
	c.JSON(kind.HTTPStatus(), gin.H{"success": false, "error": services.MessageOf(err)})
}

func respondBadRequest(c *gin.Context, operation, message string) {
	observability.IncRequestFailure(operation, services.KindValidation.String())
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}
