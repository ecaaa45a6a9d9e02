package models

type Setting struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"size:100" json:"name"`
	ClosedRegister bool   `gorm:"not null;default:false" json:"closed_register"`
	Maintenance    bool   `gorm:"not null;default:false" json:"maintenance"`
}

func (Setting) TableName() string {
	return "settings"
}
