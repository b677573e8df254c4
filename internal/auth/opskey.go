package auth

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/facilityops/resolution-service/pkg/util/errorutil"
)

const opsKeyHeader = "X-Ops-Key"

// RequireOpsKey gates operational endpoints behind a shared key compared
// against its bcrypt hash from configuration. An empty hash disables the
// endpoints entirely rather than leaving them open.
func RequireOpsKey(opsKeyHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if opsKeyHash == "" {
			return apperrors.NewForbidden("ops endpoints disabled")
		}
		key := c.Get(opsKeyHeader)
		if key == "" {
			return apperrors.NewUnauthorized("missing ops key")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(opsKeyHash), []byte(key)); err != nil {
			return apperrors.NewForbidden("invalid ops key")
		}
		return c.Next()
	}
}
