package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signToken(t *testing.T, id, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"id":   id,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token failed: %v", err)
	}
	return signed
}

func runGuard(t *testing.T, guard gin.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest("GET", "/orders", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}

	guard(c)
	return recorder, c
}

func TestAuthGuardMissingToken(t *testing.T) {
	recorder, _ := runGuard(t, UserAuth(testSecret), "")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestAuthGuardMalformedHeader(t *testing.T) {
	recorder, _ := runGuard(t, UserAuth(testSecret), "Token abc")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestAuthGuardValidTokenInjectsIdentity(t *testing.T) {
	userID := primitive.NewObjectID()
	token := signToken(t, userID.Hex(), "user")

	recorder, c := runGuard(t, UserAuth(testSecret), "Bearer "+token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", recorder.Code)
	}

	got, exists := c.Get("userId")
	if !exists || got.(primitive.ObjectID) != userID {
		t.Fatalf("expected userId %s in context, got %v", userID.Hex(), got)
	}
	if role, _ := c.Get("role"); role != "user" {
		t.Fatalf("expected role user, got %v", role)
	}
}

func TestAdminAuthRejectsNonAdmin(t *testing.T) {
	token := signToken(t, primitive.NewObjectID().Hex(), "user")

	recorder, _ := runGuard(t, AdminAuth(testSecret), "Bearer "+token)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", recorder.Code)
	}
}

func TestAdminAuthAllowsAdmin(t *testing.T) {
	token := signToken(t, primitive.NewObjectID().Hex(), "admin")

	recorder, _ := runGuard(t, AdminAuth(testSecret), "Bearer "+token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected pass-through for admin, got %d", recorder.Code)
	}
}

func TestAuthGuardRejectsWrongSecret(t *testing.T) {
	claims := jwt.MapClaims{
		"id":  primitive.NewObjectID().Hex(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("signing token failed: %v", err)
	}

	recorder, _ := runGuard(t, UserAuth(testSecret), "Bearer "+signed)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong secret, got %d", recorder.Code)
	}
}
