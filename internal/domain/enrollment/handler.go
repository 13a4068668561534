package enrollment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/orthowatch/orthowatch/internal/domain/identity"
	"github.com/orthowatch/orthowatch/internal/platform/auth"
)

// Handler exposes the enrollment endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the enrollment routes on g. Enrollment is a nurse
// workflow; admins pass through the role check implicitly.
func (h *Handler) Register(g *echo.Group) {
	g.POST("/enrollments", h.Enroll, auth.RequireRole(identity.RoleNurse, identity.RoleAdmin))
}

func (h *Handler) Enroll(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	actorID, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid user identity")
	}

	result, err := h.svc.Enroll(
		c.Request().Context(),
		&req,
		actorID,
		c.RealIP(),
		c.Request().UserAgent(),
	)
	if err != nil {
		var (
			ve *ValidationError
			ne *NotFoundError
			de *DuplicateError
		)
		switch {
		case errors.As(err, &ve):
			return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
		case errors.As(err, &ne):
			return echo.NewHTTPError(http.StatusNotFound, ne.Message)
		case errors.As(err, &de):
			return echo.NewHTTPError(http.StatusConflict, de.Message)
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "enrollment failed")
		}
	}

	return c.JSON(http.StatusCreated, result)
}
