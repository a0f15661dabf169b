package handlers

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/PremPMehta/food-del-be-sub000/internal/models"
)

type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone"`
	ReferralCode string `json:"referralCode"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Register creates a user account. When a referral code is supplied the new
// user inherits the referrer as level 1 and the referrer's own chain shifted
// down, capped at three levels.
func Register(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, route)

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		name := strings.TrimSpace(req.Name)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, "email already registered")
			return
		}

		parents, err := resolveReferralChain(ctx, db, req.ReferralCode)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "unknown referral code")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] register password hash failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "password hash failed")
			return
		}

		now := time.Now()
		user := models.User{
			Email:           email,
			PasswordHash:    string(hash),
			Name:            name,
			Phone:           strings.TrimSpace(req.Phone),
			Status:          models.UserStatusActive,
			WalletBalance:   0,
			ReferralCode:    newReferralCode(),
			ReferralParents: parents,
			Addresses:       []models.Address{},
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			respondRegisterInsertError(c, route, err)
			return
		}

		id, _ := res.InsertedID.(primitive.ObjectID)
		accessToken, err := issueUserToken(id, email, jwtSecret, accessTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] register token generation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		log.Println("[AUTH] [INFO] user registered:", email)
		c.JSON(http.StatusCreated, gin.H{
			"accessToken": accessToken,
			"user": gin.H{
				"id":           id.Hex(),
				"name":         name,
				"email":        email,
				"referralCode": user.ReferralCode,
			},
		})
	}
}

func Login(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			if err != mongo.ErrNoDocuments {
				log.Println("[AUTH] [ERROR] login user lookup failed:", err)
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		if user.Status != models.UserStatusActive {
			respondWithError(c, http.StatusForbidden, route, "user is inactive")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		accessToken, err := issueUserToken(user.ID, user.Email, jwtSecret, accessTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] login token generation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		refreshToken, err := issueRefreshToken(ctx, db, user.ID, refreshTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] login refresh token failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[AUTH] [INFO] user login succeeded:", user.Email)
		c.JSON(http.StatusOK, gin.H{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
			"expiresIn":    int64(accessTTL.Seconds()),
			"user": gin.H{
				"id":            user.ID.Hex(),
				"name":          user.Name,
				"email":         user.Email,
				"walletBalance": user.WalletBalance,
				"isPrimeMember": user.IsPrimeMember,
			},
		})
	}
}

func Refresh(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/refresh"
		defer handlePanic(c, route)

		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		hash := hashToken(strings.TrimSpace(req.RefreshToken))
		var token models.RefreshToken
		if err := db.Collection("refresh_tokens").FindOne(ctx, bson.M{
			"tokenHash": hash,
			"revoked":   false,
		}).Decode(&token); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "invalid refresh token")
			return
		}

		if time.Now().After(token.ExpiresAt) {
			_, _ = db.Collection("refresh_tokens").UpdateByID(ctx, token.ID, bson.M{"$set": bson.M{"revoked": true}})
			respondWithError(c, http.StatusUnauthorized, route, "refresh token expired")
			return
		}

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": token.UserID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "user not found")
			return
		}
		if user.Status != models.UserStatusActive {
			respondWithError(c, http.StatusForbidden, route, "user is inactive")
			return
		}

		accessToken, err := issueUserToken(user.ID, user.Email, jwtSecret, accessTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}
		refreshToken, err := issueRefreshToken(ctx, db, user.ID, refreshTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		_, _ = db.Collection("refresh_tokens").UpdateByID(ctx, token.ID, bson.M{"$set": bson.M{"revoked": true}})

		c.JSON(http.StatusOK, gin.H{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
			"expiresIn":    int64(accessTTL.Seconds()),
		})
	}
}

func Logout(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/logout"
		defer handlePanic(c, route)

		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		hash := hashToken(strings.TrimSpace(req.RefreshToken))
		res, err := db.Collection("refresh_tokens").UpdateOne(ctx, bson.M{
			"tokenHash": hash,
			"revoked":   false,
		}, bson.M{"$set": bson.M{"revoked": true}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusUnauthorized, route, "invalid refresh token")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

// GetMe returns the authenticated user's profile including wallet balance
// and membership status.
func GetMe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/me"
		defer handlePanic(c, route)

		user, ok := currentUser(c, db, route)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// respondRegisterInsertError maps a failed user insert. The unique email
// index closes the check-then-insert race, so a duplicate key here is a
// concurrent registration, not a server fault.
func respondRegisterInsertError(c *gin.Context, route string, err error) {
	if mongo.IsDuplicateKeyError(err) {
		respondWithError(c, http.StatusConflict, route, "email already registered")
		return
	}
	log.Println("[AUTH] [ERROR] register insert failed:", err)
	respondWithError(c, http.StatusInternalServerError, route, "db error")
}

// resolveReferralChain maps a referral code to the new user's parents: the
// code's owner at level 1, then the owner's own parents pushed one level
// deeper, capped at three levels.
func resolveReferralChain(ctx context.Context, db *mongo.Database, code string) ([]models.ReferralParent, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return []models.ReferralParent{}, nil
	}

	var referrer models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"referralCode": code}).Decode(&referrer); err != nil {
		return nil, err
	}

	parents := []models.ReferralParent{{UserID: referrer.ID, Level: 1}}
	for _, p := range referrer.ReferralParents {
		level := p.Level + 1
		if level > models.MaxReferralLevels {
			continue
		}
		parents = append(parents, models.ReferralParent{UserID: p.UserID, Level: level})
	}
	return parents, nil
}

func newReferralCode() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return strings.ToUpper(hex.EncodeToString(buf))
}

func issueUserToken(userID primitive.ObjectID, email, secret string, accessTTL time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"email":  email,
		"exp":    time.Now().Add(accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func issueRefreshToken(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, refreshTTL time.Duration) (string, error) {
	plain := generateRefreshString()
	if plain == "" {
		return "", errors.New("could not generate refresh token")
	}

	refresh := models.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(plain),
		ExpiresAt: time.Now().Add(refreshTTL),
		Revoked:   false,
		CreatedAt: time.Now(),
	}
	if _, err := db.Collection("refresh_tokens").InsertOne(ctx, refresh); err != nil {
		return "", err
	}
	return plain, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateRefreshString() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
