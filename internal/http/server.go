package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gopkg.in/go-playground/validator.v9"

	"yandex-team.ru/candytask"
	"yandex-team.ru/candytask/config"
	appErrors "yandex-team.ru/candytask/internal/errors"
	"yandex-team.ru/candytask/internal/validation"
	"yandex-team.ru/candytask/pkg/validations"
)

type CustomValidator struct {
	Validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.Validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}

func NewHttpServer(conf config.AppConfig, log *zap.Logger) *echo.Echo {
	e := echo.New()

	v := validator.New()
	v.RegisterValidation("each_HH_MM_HH_MM_time_interval", validations.Each_HH_MM_HH_MM_time_interval)

	e.Validator = &CustomValidator{Validator: v}
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// setup middlewares
	if conf.Env != "test" {
		e.Use(middleware.RateLimiterWithConfig(RatelimiterConfig()))
	}

	return e
}

// NewHTTPErrorHandler translates application errors to responses. Validation
// trees keep their exact wire envelope, coded errors map to their status,
// everything else is a masked 500.
func NewHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {

		if c.Response().Committed {
			return
		}

		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)

		var tree *validation.ErrorTree
		if errors.As(err, &tree) {
			c.JSON(http.StatusBadRequest, tree.Envelope())
			return
		}

		var appErr *candytask.Error
		if errors.As(err, &appErr) {
			httpCode := candytask.ErrCodeToHTTPStatus(appErr)
			message := candytask.DefaultErrorMessage

			if httpCode < 500 {
				message = candytask.ErrorMessage(appErr)

				var internalErr *appErrors.InternalError
				if errors.As(err, &internalErr) && internalErr.IsPublic {
					message = internalErr.Message
				}
			}

			c.JSON(httpCode, message)
			return
		}

		var echoError *echo.HTTPError
		if errors.As(err, &echoError) {
			c.JSON(echoError.Code, echoError.Message)
			return
		}

		c.JSON(
			http.StatusInternalServerError,
			http.StatusText(http.StatusInternalServerError),
		)
	}
}
