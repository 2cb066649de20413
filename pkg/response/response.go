package response

import (
	"errors"
	"net/http"

	"github.com/alimikegami/pos-microservices/catalog-service/pkg/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type SuccessResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
}

type ErrorResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors"`
}

func WriteSuccessResponse(c echo.Context, message string, data interface{}) error {
	resp := SuccessResponse{}
	resp.Status = "success"
	resp.Code = http.StatusOK
	resp.Data = data
	resp.Message = message

	return c.JSON(http.StatusOK, resp)
}

func WriteErrorResponse(c echo.Context, err error, errors interface{}) error {
	statusCode := errs.GetErrorStatusCode(err)
	resp := ErrorResponse{}
	resp.Status = "error"
	resp.Code = statusCode
	resp.Message = err.Error()
	resp.Errors = errors

	// raw driver errors must not leak to clients
	if statusCode == http.StatusInternalServerError {
		resp.Message = errs.ErrInternalServer.Error()
	}

	return c.JSON(statusCode, resp)
}

// WriteValidationErrorResponse renders a 400 with one entry per failed field.
func WriteValidationErrorResponse(c echo.Context, err error) error {
	var fieldErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fe := range validationErrs {
			fieldErrors = append(fieldErrors, ValidationError{
				Field: fe.Namespace(),
				Tag:   fe.Tag(),
			})
		}
	}

	return WriteErrorResponse(c, errs.ErrClient, fieldErrors)
}
