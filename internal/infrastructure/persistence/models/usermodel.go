package models

type UserModel struct {
	ID          uint   `gorm:"primaryKey"`
	Email       string `gorm:"uniqueIndex;size:255;not null"`
	DisplayName string `gorm:"size:100"`
	Role        string `gorm:"size:32;not null;index"`
	Active      bool   `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

type ClientAccessModel struct {
	ID               uint    `gorm:"primaryKey"`
	ClientID         uint    `gorm:"not null;uniqueIndex"`
	ContactName      string  `gorm:"size:100"`
	Email            string  `gorm:"size:255;not null"`
	Tier             string  `gorm:"size:20;not null"`
	Active           bool    `gorm:"not null"`
	SupportHoursUsed float64 `gorm:"not null;default:0"`
	PortalUserID     *uint   `gorm:"index"`
}

func (ClientAccessModel) TableName() string {
	return "client_accesses"
}
