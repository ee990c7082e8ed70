package response

import (
	"net/http"

	domainerrors "escrow-broker.backend/internal/domain/errors"
	"escrow-broker.backend/pkg/logger"
	"escrow-broker.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Envelope wraps every JSON response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Page is the data payload of paginated listings.
type Page struct {
	Items interface{}          `json:"items"`
	Meta  utils.PaginationMeta `json:"meta"`
}

var exposeErrors bool

// ExposeErrorDetails includes underlying error text in error responses. Enabled in development.
func ExposeErrorDetails(enabled bool) {
	exposeErrors = enabled
}

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// SuccessMessage sends a success response with a message
func SuccessMessage(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Paginated sends a page of items with its metadata.
func Paginated(c *gin.Context, items interface{}, total int64, p utils.PaginationParams) {
	Success(c, http.StatusOK, Page{Items: items, Meta: utils.CalculateMeta(total, p)})
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	appErr := domainerrors.FromError(err)

	body := Envelope{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
	}
	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "Request failed", zap.Error(err))
	}
	if exposeErrors && err != nil {
		body.Error = err.Error()
	}
	c.JSON(appErr.Status, body)
}

// Abort writes an error envelope and stops the handler chain.
func Abort(c *gin.Context, status int, code string, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Message: message,
		Code:    code,
	})
}
