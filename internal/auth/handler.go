package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/campusops/registrar-back/internal/config"
	"github.com/campusops/registrar-back/internal/db"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

func issueTokens(secret []byte, email string) (access, refresh string, err error) {
	accessClaims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(accessTokenTTL).Unix(),
	}
	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(secret)
	if err != nil {
		return "", "", err
	}

	refreshClaims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(refreshTokenTTL).Unix(),
		"type":  "refresh",
	}
	refresh, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(secret)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// LoginRequest carries the local credentials: the email plus either a
// staff password or the generated credential handed out at provisioning.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler godoc
// @Summary      Login with email and password
// @Description  Verifies local credentials and returns a JWT pair plus the user's groups
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  LoginRequest  true  "Credentials"
// @Success      200   {object} map[string]interface{}
// @Failure      401   {object} map[string]string
// @Router       /auth/login [post]
func LoginHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Missing email or password"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		user, err := db.UserByEmail(c.Request.Context(), email)
		if err != nil || user.Password != req.Password {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Invalid email or password."})
			return
		}

		access, refresh, err := issueTokens([]byte(cfg.JWTSecret), user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to issue tokens"})
			return
		}

		groups := make([]string, 0, len(user.Groups))
		for _, g := range user.Groups {
			groups = append(groups, g.Name)
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token":  access,
			"refresh_token": refresh,
			"email":         user.Email,
			"groups":        groups,
		})
	}
}

// RefreshHandler godoc
// @Summary      Refresh the token pair
// @Description  Exchanges a valid refresh token for a new access/refresh pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200   {object} map[string]string
// @Failure      401   {object} map[string]string
// @Router       /auth/refresh [post]
func RefreshHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Missing refresh token"})
			return
		}

		jwtSecret := []byte(cfg.JWTSecret)

		token, err := jwt.Parse(req.RefreshToken, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Invalid refresh token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["type"] != "refresh" {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Invalid refresh token type"})
			return
		}

		email, ok := claims["email"].(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Invalid claims"})
			return
		}

		access, refresh, err := issueTokens(jwtSecret, email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to issue tokens"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token":  access,
			"refresh_token": refresh,
		})
	}
}
