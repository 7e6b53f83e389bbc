package endpoint

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ariebrainware/clinic-appointment/config"
	"github.com/ariebrainware/clinic-appointment/middleware"
	"github.com/ariebrainware/clinic-appointment/model"
	"github.com/ariebrainware/clinic-appointment/store"
	"github.com/ariebrainware/clinic-appointment/util"
	"github.com/ariebrainware/clinic-appointment/validation"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"john@example.com"`
	Password string `json:"password" binding:"required" example:"Secret123"`
}

// SessionResponse is returned by login and signup.
type SessionResponse struct {
	Token     string     `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Role      model.Role `json:"role" example:"PATIENT"`
	AccountID string     `json:"account_id" example:"5f0c7a4e-2f0b-4b8e-9a57-0d0b0f7f6b11"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// openSession signs a token, records the session row and caches it in Redis.
// The cache write is best-effort.
func openSession(c *gin.Context, db *gorm.DB, accountID string, role model.Role) (SessionResponse, error) {
	token, expires, err := util.CreateSessionToken(accountID, role, sessionTTL)
	if err != nil {
		return SessionResponse{}, err
	}

	ci := clientInfoFrom(c)
	ctx := c.Request.Context()
	session := model.Session{
		SessionToken: token,
		AccountID:    accountID,
		Role:         role,
		ExpiresAt:    expires,
		ClientIP:     ci.IP,
		Browser:      ci.Agent,
	}
	if err := db.WithContext(ctx).Create(&session).Error; err != nil {
		return SessionResponse{}, fmt.Errorf("record session: %w", err)
	}
	if err := util.CacheSession(ctx, token, accountID, role, time.Until(expires)); err != nil {
		zap.L().Warn("failed to cache session", zap.String("account_id", accountID), zap.Error(err))
	}
	return SessionResponse{Token: token, Role: role, AccountID: accountID, ExpiresAt: expires}, nil
}

// Login godoc
// @Summary      Account login
// @Description  Authenticate a patient or doctor with email and password
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=SessionResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid request payload or credentials"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	stores, ok := getStoresOrRespond(c)
	if !ok {
		return
	}

	ci := clientInfoFrom(c)
	found := stores.Accounts.AccountByEmail(c.Request.Context(), req.Email)
	if found.IsFailed() {
		util.LogLoginFailure(req.Email, ci.IP, ci.Agent, "database error")
		respondStoreFailure(c, "account_by_email", found.Err())
		return
	}
	account, ok := found.Get()
	if !ok {
		util.LogLoginFailure(req.Email, ci.IP, ci.Agent, "account not found")
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid email or password", Err: fmt.Errorf("account not found")})
		return
	}

	hash, salt := account.Credentials()
	match, err := util.VerifyPassword(req.Password, hash, salt)
	if err != nil {
		util.LogLoginFailure(req.Email, ci.IP, ci.Agent, "password verification error")
		util.CallServerError(c, util.APIErrorParams{Msg: "Password verification failed", Err: err})
		return
	}
	if !match {
		util.LogLoginFailure(req.Email, ci.IP, ci.Agent, "invalid password")
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid email or password", Err: fmt.Errorf("invalid password")})
		return
	}

	resp, err := openSession(c, db, account.ID(), account.Role)
	if err != nil {
		util.LogLoginFailure(req.Email, ci.IP, ci.Agent, "session creation failed")
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to record session", Err: err})
		return
	}

	if config.GetRedisClient() != nil {
		if err := middleware.ResetRateLimit(c.Request.Context(), ci.IP, c.Request.URL.Path); err != nil {
			zap.L().Warn("failed to reset login rate limit", zap.String("ip", ci.IP), zap.Error(err))
		}
	}

	util.LogLoginSuccess(account.ID(), req.Email, ci.IP, ci.Agent)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Login successful", Data: resp})
}

// Logout godoc
// @Summary      Account logout
// @Description  Invalidate the caller's session token, or every session of the account with all=true
// @Tags         Authentication
// @Produce      json
// @Security     SessionToken
// @Param        all  query  bool  false  "End every session of the account"
// @Success      200 {object} util.APIResponse "Logout successful"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /logout [delete]
func Logout(c *gin.Context) {
	session, ok := sessionOrRespond(c)
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	everywhere := c.Query("all") == "true"
	scope := db.WithContext(ctx).Where("session_token = ?", session.SessionToken)
	if everywhere {
		scope = db.WithContext(ctx).Where("account_id = ?", session.AccountID)
	}
	if err := scope.Delete(&model.Session{}).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete session", Err: err})
		return
	}

	var cacheErr error
	if everywhere {
		cacheErr = util.InvalidateAccountSessions(ctx, session.AccountID)
	} else {
		cacheErr = util.RemoveCachedSession(ctx, session.SessionToken, session.AccountID)
	}
	if cacheErr != nil {
		zap.L().Warn("failed to remove cached session", zap.String("account_id", session.AccountID), zap.Error(cacheErr))
	}

	util.LogLogout(session.AccountID, c.ClientIP(), c.Request.UserAgent())
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Logout successful"})
}

func hashPasswordForSignup(c *gin.Context, plain string) (string, string, bool) {
	salt, err := util.GenerateSalt()
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to generate password salt", Err: err})
		return "", "", false
	}
	hashedPassword, err := util.HashPasswordArgon2(plain, salt)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to hash password", Err: err})
		return "", "", false
	}
	return hashedPassword, salt, true
}

func respondEmailTaken(c *gin.Context) {
	util.CallConflict(c, util.APIErrorParams{Msg: "Email already exists", Err: store.ErrEmailTaken})
}

// createAccount stores the account the form describes and returns its id.
func createAccount(c *gin.Context, stores middleware.Stores, form *validation.SignUpForm, hash, salt string) (string, error) {
	ctx := c.Request.Context()
	if form.Role() == model.RoleDoctor {
		doc, err := stores.Accounts.CreateDoctor(ctx, form.DoctorDraft(hash, salt))
		return doc.ID, err
	}
	p, err := stores.Accounts.CreatePatient(ctx, form.PatientDraft(hash, salt))
	return p.ID, err
}

// Signup godoc
// @Summary      Account registration
// @Description  Register a patient or doctor. Every field is validated; failures return the per-field messages as data.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body validation.SignUpForm true "Registration form"
// @Success      200 {object} util.APIResponse{data=SessionResponse} "Signup successful"
// @Failure      400 {object} util.APIResponse{data=map[string]string} "Validation failed"
// @Failure      409 {object} util.APIResponse "Email already exists"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /signup [post]
func Signup(c *gin.Context) {
	var form validation.SignUpForm
	if !bindJSONOrRespond(c, &form, "Invalid request payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	stores, ok := getStoresOrRespond(c)
	if !ok {
		return
	}

	form.FirstName = util.NormalizeName(form.FirstName)
	form.LastName = util.NormalizeName(form.LastName)
	form.Email = strings.TrimSpace(form.Email)
	form.Specializations = model.UniqueTags(form.Specializations)
	if !form.ValidateAll() {
		util.CallValidationError(c, util.APIErrorParams{
			Msg: "Please correct the highlighted fields",
			Err: fmt.Errorf("validation failed"),
		}, form.Errors())
		return
	}

	taken, err := stores.Accounts.EmailTaken(c.Request.Context(), form.Email)
	if err != nil {
		respondStoreFailure(c, "email_taken", err)
		return
	}
	if taken {
		respondEmailTaken(c)
		return
	}

	hash, salt, ok := hashPasswordForSignup(c, form.Password)
	if !ok {
		return
	}
	accountID, err := createAccount(c, stores, &form, hash, salt)
	if errors.Is(err, store.ErrEmailTaken) {
		respondEmailTaken(c)
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create account", Err: err})
		return
	}

	ci := clientInfoFrom(c)
	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventSignupSuccess,
		AccountID: accountID,
		Email:     form.Email,
		IP:        ci.IP,
		UserAgent: ci.Agent,
		Message:   fmt.Sprintf("%s account created", form.Role().Display()),
	})

	resp, err := openSession(c, db, accountID, form.Role())
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to record session", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Signup successful", Data: resp})
}
