package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// FromError maps business errors onto the HTTP statuses the frontend relies
// on: 409 sends the user back to slot selection, 422 points at settings,
// 503 shows a "try again" state.
func FromError(c *gin.Context, err error) {
	switch {
	case IsConflict(err):
		Write(c, http.StatusConflict, CodeSlotTaken, "horário indisponível, escolha outro")
	case IsConfiguration(err):
		Write(c, http.StatusUnprocessableEntity, CodeProviderCredentials, "configure suas credenciais de pagamento")
	case IsTransient(err):
		Write(c, http.StatusServiceUnavailable, CodeProviderUnavailable, "falha temporária no provedor, tente novamente")
	case IsBusiness(err, CodeNotFound):
		NotFound(c, CodeNotFound, "registro não encontrado")
	default:
		var be BusinessError
		if errors.As(err, &be) {
			BadRequest(c, be.Code, be.Code)
			return
		}
		Internal(c, "internal_error", "erro interno")
	}
}
