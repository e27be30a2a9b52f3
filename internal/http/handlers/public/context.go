package public

import (
	handlershared "github.com/shopfinity/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.RequireUserID(c)
}

// optionalUserID 购物车等接口允许游客访问
func optionalUserID(c *gin.Context) uint {
	return handlershared.OptionalUserID(c)
}

func getDeviceID(c *gin.Context) string {
	return handlershared.DeviceID(c)
}
