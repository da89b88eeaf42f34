/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package fakeapi

import (
	"strings"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/nitesh7079/veneer/config"
)

const (
	userIDHeader = "x-user-id"
	userIDKey    = "userId"
)

// RateLimitMiddleware limits requests per client IP using Tollbooth. It is a
// no-op unless both the rate and the burst are configured.
func RateLimitMiddleware(conf config.DevServerConfig) gin.HandlerFunc {
	if conf.RateLimitRPS == nil || conf.RateLimitBurst == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	lmt := tollbooth.NewLimiter(*conf.RateLimitRPS, &limiter.ExpirableOptions{
		DefaultExpirationTTL: time.Duration(conf.CleanupIntervalSec) * time.Second,
	})
	lmt.SetBurst(*conf.RateLimitBurst)
	return func(c *gin.Context) {
		httpError := tollbooth.LimitByRequest(lmt, c.Writer, c.Request)
		if httpError != nil {
			c.AbortWithStatusJSON(httpError.StatusCode, gin.H{"success": false, "message": httpError.Message})
			return
		}
		c.Next()
	}
}

// AuthMiddleware accepts a bearer token signed with secret and not expired
// according to now. When the request
// also names a user in the x-user-id header it must match the token subject.
//
// Responses:
// - 401 Unauthorized: When the token is missing, malformed, expired or badly signed.
// - 403 Forbidden: When x-user-id names another user.
func AuthMiddleware(secret string, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "Authentication required"})
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(now))
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}

		subject, _ := claims.GetSubject()
		if id := c.GetHeader(userIDHeader); id != "" && id != subject {
			c.AbortWithStatusJSON(403, gin.H{"success": false, "message": "Token does not belong to this user"})
			return
		}

		c.Set(userIDKey, subject)
		c.Next()
	}
}

// issueToken signs an HS256 token for userID that expires after ttl.
func issueToken(secret, userID, email string, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   jwt.NewNumericDate(now),
		"exp":   jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
