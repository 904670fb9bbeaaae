package middleware

import (
	"time"

	"mentorhub/internal/common"
	"mentorhub/internal/models"
	"mentorhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuditMiddleware records admin mutations. Reads are never audited; the
// request proceeds even when the audit write fails.
type AuditMiddleware struct {
	auditRepo repositories.AuditLogsRepository
}

func NewAuditMiddleware(auditRepo repositories.AuditLogsRepository) *AuditMiddleware {
	return &AuditMiddleware{auditRepo: auditRepo}
}

// AuditMutations logs POST/PUT/PATCH/DELETE requests with the actor, route,
// and outcome.
func (m *AuditMiddleware) AuditMutations() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			method := c.Request().Method
			if method == echo.GET || method == echo.HEAD || method == echo.OPTIONS {
				return err
			}

			ctx := c.Request().Context()
			orgID, ok := common.GetOrgIDFromContext(ctx)
			if !ok {
				return err
			}

			var actorPtr *uuid.UUID
			if actorID, ok := common.GetUserIDFromContext(ctx); ok {
				actorPtr = &actorID
			}

			entry := &models.AuditLog{
				OrganizationID: orgID,
				EntityType:     "http_request",
				EntityID:       uuid.NewString(),
				Action:         method + " " + c.Path(),
				ActorID:        actorPtr,
				NewValues: models.JSONB{
					"method":    method,
					"path":      c.Path(),
					"status":    c.Response().Status,
					"ip":        c.RealIP(),
					"timestamp": time.Now().Format(time.RFC3339),
				},
			}
			if err != nil {
				entry.NewValues["error"] = err.Error()
			}

			if auditErr := m.auditRepo.Create(ctx, entry); auditErr != nil {
				c.Logger().Errorf("failed to write audit entry: %v", auditErr)
			}

			return err
		}
	}
}
