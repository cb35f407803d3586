package respond

import "github.com/gin-gonic/gin"

// Context keys shared by middleware, handlers and error logging.
const (
	RequestIDKey  = "requestId"
	AnalysisIDKey = "analysisId"
)

// JSON writes payload with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// List writes items as a JSON array. A nil slice is sent as [] so clients
// never have to handle null for an empty collection.
func List[T any](c *gin.Context, status int, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(status, items)
}
