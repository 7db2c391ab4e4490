package handler

import (
	"net/http"

	"github.com/framewall/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Capabilities gate admin actions. An action declaring the empty
// capability is open to any caller.
const (
	CapManageGalleries  = "manage_galleries"
	CapManageSettings   = "manage_settings"
	CapManageCategories = "manage_categories"
	CapUploadMedia      = "upload_media"
	CapPublishPages     = "publish_pages"
)

var roleCapabilities = map[string][]string{
	db.RoleAdmin:  {CapManageGalleries, CapManageSettings, CapManageCategories, CapUploadMedia, CapPublishPages},
	db.RoleEditor: {CapManageGalleries, CapManageCategories, CapUploadMedia},
}

const (
	sessionKeyUserID = "user_id"
	sessionKeyRole   = "role"
	sessionKeyToken  = "session_token"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates an admin account and opens a session. Each session
// gets a fresh random token that the nonce service binds tokens to.
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "invalid login payload") {
		return
	}

	var user db.User
	if err := a.db.Where("username = ?", payload.Username).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionKeyUserID, user.ID)
	session.Set(sessionKeyRole, user.Role)
	session.Set(sessionKeyToken, uuid.New().String())
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": user.Username, "role": user.Role})
}

// Logout clears the session.
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// AuthRequired rejects requests that carry no authenticated session.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get(sessionKeyUserID) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// sessionCaller adapts the gin session to the dispatch.Caller checks.
type sessionCaller struct {
	role      string
	sessionID string
	api       *API
}

func (a *API) callerFromSession(c *gin.Context) *sessionCaller {
	session := sessions.Default(c)
	caller := &sessionCaller{api: a}
	if role, ok := session.Get(sessionKeyRole).(string); ok {
		caller.role = role
	}
	if token, ok := session.Get(sessionKeyToken).(string); ok {
		caller.sessionID = token
	}
	return caller
}

func (s *sessionCaller) Can(capability string) bool {
	if capability == "" {
		return true
	}
	for _, held := range roleCapabilities[s.role] {
		if held == capability {
			return true
		}
	}
	return false
}

func (s *sessionCaller) VerifyNonce(token, scope string) bool {
	return s.api.nonces.Verify(token, s.sessionID, scope)
}
