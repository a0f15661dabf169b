package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestNewReferralCodeShape(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-F]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code := newReferralCode()
		if !pattern.MatchString(code) {
			t.Fatalf("unexpected referral code %q", code)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatal("referral codes should not repeat across calls")
	}
}

func TestIssueUserTokenCarriesClaims(t *testing.T) {
	userID := primitive.NewObjectID()
	signed, err := issueUserToken(userID, "a@b.com", "secret", time.Minute)
	if err != nil {
		t.Fatalf("issueUserToken failed: %v", err)
	}

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token should parse and be valid: %v", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}
	if claims["userId"] != userID.Hex() {
		t.Fatalf("expected userId claim %s, got %v", userID.Hex(), claims["userId"])
	}
	if claims["email"] != "a@b.com" {
		t.Fatalf("expected email claim, got %v", claims["email"])
	}
}

func TestHashTokenDeterministic(t *testing.T) {
	if hashToken("abc") != hashToken("abc") {
		t.Fatal("same token must hash identically")
	}
	if hashToken("abc") == hashToken("abd") {
		t.Fatal("different tokens must not collide trivially")
	}
	if len(hashToken("abc")) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(hashToken("abc")))
	}
}

func TestRegisterInsertDuplicateEmailMapsToConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	respondRegisterInsertError(c, "POST /auth/register", dup)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", w.Code)
	}
}

func TestRegisterInsertOtherErrorsStayInternal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondRegisterInsertError(c, "POST /auth/register", errors.New("connection reset"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for non-duplicate insert error, got %d", w.Code)
	}
}
