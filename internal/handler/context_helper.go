package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-console-api/internal/middleware"
)

// actorID names who changed a draft; empty on unauthenticated routes.
func actorID(c *gin.Context) string {
	return middleware.CurrentUser(c).Actor()
}
