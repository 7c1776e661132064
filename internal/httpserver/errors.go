package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matheusmosca/inventory-app/internal/database"
)

// InternalErrorMessage is the body of every 500 answer.
const InternalErrorMessage = "internal server error"

// RespondError traduz o erro do caso de uso em status HTTP:
// notFound → 404, recusa do banco → 400 com a mensagem do banco, resto → 500.
func RespondError(c *gin.Context, err error, notFound error) {
	if notFound != nil && errors.Is(err, notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}

	if rejected, ok := database.AsRejected(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": rejected.Message})
		return
	}

	log.Printf("❌ [%s %s] RequestID=%s | Error=%v", c.Request.Method, c.FullPath(), RequestIDFrom(c), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": InternalErrorMessage})
}
