package models

import "time"

type CustomerModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	Name           string
	WhatsappNumber *string
	CreatedAt      time.Time
}

func (CustomerModel) TableName() string { return "customers" }

type SpecialistModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	Name           string
	WhatsappNumber *string
	CreatedAt      time.Time
}

func (SpecialistModel) TableName() string { return "specialists" }
