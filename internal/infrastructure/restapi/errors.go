package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/panoramablock/rwasync/internal/domain/entity"
)

// APIError is the uniform error payload. Remediation is present only for
// connection failures that the user can act on.
type APIError struct {
	Error       string `json:"error"`
	Remediation string `json:"remediation,omitempty"`
}

// writeError maps domain error types onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	var (
		connErr    *entity.ConnectionError
		validErr   *entity.ValidationError
		signErr    *entity.SigningError
		netErr     *entity.NetworkError
		storageErr *entity.StorageError
	)

	switch {
	case errors.As(err, &connErr):
		c.JSON(http.StatusConflict, APIError{Error: connErr.Error(), Remediation: connErr.Remediation})
	case errors.As(err, &validErr):
		c.JSON(http.StatusBadRequest, APIError{Error: validErr.Error()})
	case errors.As(err, &signErr):
		c.JSON(http.StatusUnauthorized, APIError{Error: signErr.Error()})
	case errors.As(err, &netErr):
		c.JSON(http.StatusBadGateway, APIError{Error: netErr.Error()})
	case errors.As(err, &storageErr):
		c.JSON(http.StatusInternalServerError, APIError{Error: storageErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, APIError{Error: err.Error()})
	}
}
