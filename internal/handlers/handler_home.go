package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHealth reports process liveness. Registered outside the authenticated
// API group.
func getHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
