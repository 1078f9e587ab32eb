package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"

	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/eligibility"
	"github.com/bloodbridge/bloodbridge-backend/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	errInvalidBody  = errors.New("Invalid request body")
	errInvalidParam = errors.New("invalid parameter")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind parses the JSON body into out and validates it.
func bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return validate.Struct(out)
}

// Status codes for the service sentinels. Anything not listed is a 500.
var statusByError = []struct {
	err    error
	status int
}{
	{errInvalidBody, fiber.StatusBadRequest},
	{errInvalidParam, fiber.StatusBadRequest},
	{eligibility.ErrUnknownReason, fiber.StatusBadRequest},
	{services.ErrInvalidDate, fiber.StatusBadRequest},
	{services.ErrNotEligible, fiber.StatusBadRequest},
	{services.ErrDonorFieldsNotAllowed, fiber.StatusBadRequest},
	{services.ErrReasonChangeForbidden, fiber.StatusBadRequest},
	{services.ErrIncompleteDonorData, fiber.StatusBadRequest},
	{services.ErrScheduleInPast, fiber.StatusBadRequest},
	{services.ErrSelfAction, fiber.StatusBadRequest},
	{services.ErrInvalidStatus, fiber.StatusBadRequest},
	{services.ErrEmptyMessage, fiber.StatusBadRequest},
	{services.ErrMessageTooLong, fiber.StatusBadRequest},

	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},

	{services.ErrInvalidAdminSecret, fiber.StatusForbidden},
	{services.ErrCannotBlockAdmin, fiber.StatusForbidden},
	{services.ErrCannotDeleteAdmin, fiber.StatusForbidden},
	{services.ErrNotADonor, fiber.StatusForbidden},

	{services.ErrAdminRegistrationDisabled, fiber.StatusNotFound},
	{services.ErrAccountNotFound, fiber.StatusNotFound},
	{services.ErrNotBlocked, fiber.StatusNotFound},
	{services.ErrDonorNotFound, fiber.StatusNotFound},
	{services.ErrReportNotFound, fiber.StatusNotFound},
	{services.ErrNotificationNotFound, fiber.StatusNotFound},
	{services.ErrVoteNotFound, fiber.StatusNotFound},

	{services.ErrEmailTaken, fiber.StatusConflict},
	{services.ErrVariantMismatch, fiber.StatusConflict},
	{services.ErrAlreadyDonor, fiber.StatusConflict},
	{services.ErrAlreadyBlocked, fiber.StatusConflict},
	{services.ErrAlreadyVoted, fiber.StatusConflict},

	{services.ErrChatQuotaExceeded, fiber.StatusTooManyRequests},
}

// respondError writes the JSON error envelope for err. Unknown errors are
// logged and reported, and the client gets a generic message.
func respondError(c *fiber.Ctx, err error) error {
	var (
		verrs    validator.ValidationErrors
		elig     *services.EligibilityError
		rejected *services.ContentRejectedError
	)
	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
			Error: true, Message: "Validation failed", Fields: fields,
		})
	case errors.As(err, &elig):
		return c.Status(fiber.StatusForbidden).JSON(dto.EligibilityErrorResponse{
			Error:              true,
			Message:            elig.Error(),
			SignupReason:       string(elig.Reason),
			ProfileUpdatableAt: elig.UpdatableAt,
		})
	case errors.As(err, &rejected):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: rejected.Message})
	}

	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
		}
	}

	slog.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"trace_id", traceID(c),
		"error", err,
	)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

func traceID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return parseUUID(c.Params(name), name)
}

func queryUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return parseUUID(c.Query(name), name)
}

func parseUUID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", errInvalidParam, name)
	}
	return id, nil
}

// page reads limit and offset query parameters, capping limit at 100.
func page(c *fiber.Ctx) (int, int) {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"message": msg})
}
