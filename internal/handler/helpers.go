package handler

import (
	"net/http"
	"reflect"
	"strconv"

	"bizzops/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds the JSON body and runs go-playground/validator tags.
// Returns false after writing the error response when validation fails.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		status, body := apperror.ToResponse(apperror.Validation("invalid JSON: " + err.Error()))
		c.JSON(status, body)
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		status, body := apperror.ToResponse(apperror.ValidationFields(fields))
		c.JSON(status, body)
		return false
	}
	return true
}

// bindQuery binds query parameters and runs their validator tags, writing the
// error response on failure.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		status, body := apperror.ToResponse(apperror.Validation(err.Error()))
		c.JSON(status, body)
		return false
	}
	if err := validate.Struct(filter); err != nil {
		status, body := apperror.ToResponse(apperror.Validation(err.Error()))
		c.JSON(status, body)
		return false
	}
	return true
}

// pagination reads ?page and ?limit with sane defaults and an upper cap.
func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// pagedResponse is the envelope for list endpoints that paginate server-side.
type pagedResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// pathID parses the :id path parameter as a UUID.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		status, body := apperror.ToResponse(apperror.Validation("invalid id"))
		c.JSON(status, body)
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps a service error onto the HTTP envelope.
func respondError(c *gin.Context, err error) {
	status, body := apperror.ToResponse(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err) // surfaced by the ErrorHandler middleware log
	}
	c.JSON(status, body)
}
