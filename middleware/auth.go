package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/malwarebo/taskhub/api"
	"github.com/malwarebo/taskhub/utils"
)

// AuthMiddleware resolves an optional bearer token into a user id.
// Requests without a token proceed anonymously; a token that is
// present but invalid is rejected.
type AuthMiddleware struct {
	secret []byte
	logger *utils.Logger
}

func CreateAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(secret),
		logger: utils.NewLogger("auth"),
	}
}

func (am *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			api.WriteFailure(w, r, api.DetailError{Detail: "Invalid authorization format"}, http.StatusUnauthorized, "Authentication failed")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := am.parseToken(token)
		if err != nil {
			am.logger.Warn(r.Context(), "token rejected", map[string]interface{}{
				"error": err.Error(),
			})
			api.WriteFailure(w, r, api.DetailError{Detail: "Invalid token"}, http.StatusUnauthorized, "Authentication failed")
			return
		}

		ctx := api.WithUserID(r.Context(), userID)
		ctx = utils.WithUserID(ctx, strconv.FormatUint(uint64(userID), 10))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseToken validates the signature and extracts the user id from the
// subject claim.
func (am *AuthMiddleware) parseToken(token string) (uint, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return am.secret, nil
	})
	if err != nil {
		return 0, err
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseUint(subject, 10, 32)
	if err != nil || userID == 0 {
		return 0, jwt.ErrTokenInvalidSubject
	}

	return uint(userID), nil
}
