package services

import (
	"fmt"

	"courtfinder/errors"

	"github.com/dgrijalva/jwt-go"
)

// GetUserIDFromToken xác thực chữ ký HS256 và lấy userID từ claim userinfo.userid
func GetUserIDFromToken(tokenString string, secret []byte) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.NewAppError(errors.ErrCodeInvalidToken, "invalid token", err)
	}

	claimsMap, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.NewAppError(errors.ErrCodeInvalidToken, "cannot read token claims", nil)
	}

	userInfo, ok := claimsMap["userinfo"].(map[string]interface{})
	if !ok {
		return 0, errors.NewAppError(errors.ErrCodeInvalidToken, "token has no user info", nil)
	}

	userID, ok := userInfo["userid"].(float64)
	if !ok || userID <= 0 {
		return 0, errors.NewAppError(errors.ErrCodeInvalidToken, "token has no user id", nil)
	}

	return uint(userID), nil
}

// NewUserToken ký token HS256 với claim userinfo.userid, dùng cho công cụ nội bộ và test
func NewUserToken(userID uint, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"userinfo": map[string]interface{}{"userid": userID},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
