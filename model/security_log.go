package model

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SecurityLog is the persisted form of an audit event: logins, rejected
// requests and appointment status changes.
type SecurityLog struct {
	gorm.Model
	EventType string `json:"event_type" gorm:"column:event_type;type:varchar(64);index"`
	AccountID string `json:"account_id" gorm:"column:account_id;type:varchar(36);index"`
	Email     string `json:"email" gorm:"column:email;type:varchar(191);index"`
	IP        string `json:"ip" gorm:"column:ip;type:varchar(45)"`
	// "City/Country" when the GeoIP database knows the address
	Location  string         `json:"location" gorm:"column:location;type:varchar(255)"`
	UserAgent string         `json:"user_agent" gorm:"column:user_agent;type:varchar(512)"`
	Message   string         `json:"message" gorm:"column:message;type:text"`
	Details   datatypes.JSON `json:"details" gorm:"column:details;type:json"`
}

// DetailMap decodes Details. An empty column yields an empty map.
func (l SecurityLog) DetailMap() (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if len(l.Details) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(l.Details, &out); err != nil {
		return nil, err
	}
	return out, nil
}
