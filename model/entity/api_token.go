package entity

import "time"

// ApiToken is a service-to-service access token (api_token). Token
// administration lives outside this service; the API layer only validates.
type ApiToken struct {
	EntityID  uint      `gorm:"column:entity_id;primaryKey;autoIncrement"`
	Token     string    `gorm:"column:token;type:varchar(64);not null;uniqueIndex"`
	Label     string    `gorm:"column:label;type:varchar(128)"`
	Revoked   uint16    `gorm:"column:revoked;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ApiToken) TableName() string {
	return "api_token"
}
