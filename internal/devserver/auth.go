package devserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/validation"
)

const (
	tokenTTL   = 72 * time.Hour
	emailKey   = "email"
	userIDKey  = "userID"
	authHeader = "Authorization"
)

// IssueToken signs an HS256 token for email, the same shape the login
// endpoint returns.
func (s *Server) IssueToken(email string) (string, error) {
	s.store.mu.Lock()
	userID := s.store.account(email).userID
	s.store.mu.Unlock()

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    email,
		"email":  email,
		"userId": userID,
		"jti":    uuid.NewString(),
		"iat":    now.Unix(),
		"exp":    now.Add(tokenTTL).Unix(),
	})
	return token.SignedString(s.secret)
}

func (s *Server) login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validation.Check(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if password, ok := s.store.credentials(email); ok {
		if password != input.Password {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
	} else if len(s.users) > 0 {
		if password, ok := s.users[email]; !ok || password != input.Password {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
	}

	token, err := s.IssueToken(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign token"})
		return
	}
	c.JSON(http.StatusOK, models.LoginResponse{Token: token})
}

func (s *Server) register(c *gin.Context) {
	input, ok := bind[models.RegisterInput](c)
	if !ok {
		return
	}
	user, ok := s.store.register(input)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	c.JSON(http.StatusCreated, models.RegisterResponse{Message: "User registered successfully", User: user})
}

// requireAuth rejects requests without a valid bearer token and stores the
// caller's email in the context.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeader)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.secret, nil
		}, jwt.WithTimeFunc(s.now))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}
		email, _ := claims["email"].(string)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "email claim missing"})
			return
		}

		c.Set(emailKey, email)
		if id, ok := claims["userId"].(float64); ok {
			c.Set(userIDKey, int(id))
		}
		c.Next()
	}
}

func callerEmail(c *gin.Context) string {
	return c.GetString(emailKey)
}
