package user

import "time"

type User struct {
	ID               string     `bson:"_id" json:"id" gorm:"primaryKey;size:64"`
	Username         string     `bson:"username" json:"username" gorm:"size:64;uniqueIndex;not null"`
	DisplayName      string     `bson:"display_name" json:"display_name" gorm:"size:128"`
	Profession       string     `bson:"profession" json:"profession" gorm:"size:128"`
	AvatarURL        string     `bson:"avatar_url" json:"avatar_url" gorm:"size:512"`
	Points           int64      `bson:"leaderboard_points" json:"leaderboard_points" gorm:"column:leaderboard_points;not null;index"`
	LastAlertCheckAt *time.Time `bson:"last_alert_check_at,omitempty" json:"last_alert_check_at,omitempty"`
	DeviceTokens     []string   `bson:"device_tokens,omitempty" json:"-" gorm:"serializer:json"`
}

func (User) TableName() string {
	return "users"
}
