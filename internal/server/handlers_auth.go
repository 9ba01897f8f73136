package server

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"scory/internal/db"
)

const refreshCookieName = "refreshToken"

type registerRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if !s.bindJSON(c, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing db.User
	err := s.db.Where("email = ? OR username = ?", email, req.Username).First(&existing).Error
	if err == nil {
		field := "username"
		if existing.Email == email {
			field = "email"
		}
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "user with this " + field + " already exists",
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}
	user := db.User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "user with this username or email already exists",
			})
			return
		}
		respondError(c, err)
		return
	}

	accessToken, refreshToken, err := s.issueTokens(&user)
	if err != nil {
		respondError(c, err)
		return
	}
	s.setRefreshCookie(c, refreshToken)
	log.Printf("user registered user_id=%d username=%s", user.ID, user.Username)
	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "user registered successfully",
		"accessToken": accessToken,
		"user":        userJSON(&user),
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if !s.bindJSON(c, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user db.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		s.respondBadCredentials(c)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.respondBadCredentials(c)
		return
	}

	accessToken, refreshToken, err := s.issueTokens(&user)
	if err != nil {
		respondError(c, err)
		return
	}
	now := time.Now().UTC()
	_ = s.db.Model(&user).Update("last_login", now).Error
	s.setRefreshCookie(c, refreshToken)
	log.Printf("user logged in user_id=%d username=%s", user.ID, user.Username)
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "login successful",
		"accessToken": accessToken,
		"user":        userJSON(&user),
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie != "" {
		_ = s.db.Model(&db.User{}).
			Where("refresh_token = ?", cookie).
			Update("refresh_token", "").Error
	}
	s.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "logged out successfully",
	})
}

func (s *Server) handleRefresh(c *gin.Context) {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie == "" {
		s.respondNotAuthorized(c)
		return
	}
	userID, err := s.tokens.VerifyRefresh(cookie)
	if err != nil {
		s.respondNotAuthorized(c)
		return
	}
	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil || user.RefreshToken != cookie {
		s.respondNotAuthorized(c)
		return
	}
	accessToken, err := s.tokens.GenerateAccess(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"accessToken": accessToken,
	})
}

func (s *Server) handleCurrentUser(c *gin.Context) {
	var user db.User
	if err := s.db.First(&user, currentUserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "user not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    userJSON(&user),
	})
}

func (s *Server) issueTokens(user *db.User) (string, string, error) {
	accessToken, err := s.tokens.GenerateAccess(user.ID)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := s.tokens.GenerateRefresh(user.ID)
	if err != nil {
		return "", "", err
	}
	if err := s.db.Model(user).Update("refresh_token", refreshToken).Error; err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *Server) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	maxAge := s.cfg.RefreshTokenDays * 24 * 60 * 60
	c.SetCookie(refreshCookieName, token, maxAge, "/api/auth", "", false, true)
}

func (s *Server) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, "", -1, "/api/auth", "", false, true)
}

func (s *Server) respondBadCredentials(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "invalid email or password",
	})
}

func (s *Server) respondNotAuthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "not authorized",
	})
}
