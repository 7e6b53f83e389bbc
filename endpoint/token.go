package endpoint

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ariebrainware/clinic-appointment/model"
	"github.com/ariebrainware/clinic-appointment/util"
)

type TokenInfo struct {
	AccountID string     `json:"account_id"`
	Role      model.Role `json:"role" example:"DOCTOR"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// ValidateToken godoc
// @Summary      Validate session token
// @Description  Report the account behind a valid, unexpired session token
// @Tags         Authentication
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=TokenInfo} "Valid session token"
// @Failure      401 {object} util.APIResponse "Invalid or expired session token"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /token/validate [get]
func ValidateToken(c *gin.Context) {
	session, ok := sessionOrRespond(c)
	if !ok {
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Valid session token",
		Data: TokenInfo{
			AccountID: session.AccountID,
			Role:      session.Role,
			ExpiresAt: session.ExpiresAt,
		},
	})
}
