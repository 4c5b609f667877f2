package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

const (
	ContextActorID  = "actorID"
	ContextClinicID = "clinicID"
)

// TenantMiddleware valida o bearer token (HMAC) e fixa a clínica da
// requisição a partir da claim clinica_id. Tokens são emitidos fora
// deste serviço.
func TenantMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing_authorization_header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, "invalid_authorization_header")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "invalid_token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "invalid_token_claims")
			return
		}

		rawClinic, _ := claims["clinica_id"].(string)
		clinicID, err := uuid.Parse(rawClinic)
		if err != nil || clinicID == uuid.Nil {
			unauthorized(c, "invalid_token_payload")
			return
		}
		actor, _ := claims["sub"].(string)

		c.Set(ContextClinicID, clinicID)
		c.Set(ContextActorID, actor)

		c.Next()
	}
}

func unauthorized(c *gin.Context, code string) {
	httperr.Unauthorized(c, code, "Token inválido ou ausente.")
	c.Abort()
}

func ClinicID(c *gin.Context) uuid.UUID {
	return c.MustGet(ContextClinicID).(uuid.UUID)
}

func ActorID(c *gin.Context) string {
	return c.GetString(ContextActorID)
}
