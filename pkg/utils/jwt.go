package utils

import (
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

const AdminRoleID = 1

func CreateJWTToken(userID int64, roleID int64, userName string, jwtSecretKey string) (string, error) {
	claims := jwt.MapClaims{}
	claims["authorized"] = true
	claims["userID"] = userID
	claims["roleID"] = roleID
	claims["name"] = userName
	claims["exp"] = time.Now().Add(time.Hour * 24).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(jwtSecretKey))
}

// ExtractTokenUser reads the user and role ids placed in the context by the
// JWT middleware. ok is false when the request carries no valid token.
func ExtractTokenUser(c echo.Context) (userID int64, roleID int64, ok bool) {
	user, isToken := c.Get("user").(*jwt.Token)
	if !isToken || user == nil || !user.Valid {
		return 0, 0, false
	}

	claims, isMap := user.Claims.(jwt.MapClaims)
	if !isMap {
		return 0, 0, false
	}

	uid, isNumber := claims["userID"].(float64)
	if !isNumber {
		return 0, 0, false
	}

	if rid, hasRole := claims["roleID"].(float64); hasRole {
		roleID = int64(rid)
	}

	return int64(uid), roleID, true
}
