package models

import "github.com/google/uuid"

type LevelRequirement struct {
	MinimumLevel int `json:"minimum_level"`
}

// MemberLevels are the platform-wide minimum account levels per operation.
type MemberLevels struct {
	Deposit  LevelRequirement `json:"deposit"`
	Withdraw LevelRequirement `json:"withdraw"`
	Trading  LevelRequirement `json:"trading"`
}

type UserInfo struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Level int       `json:"level"`
	State string    `json:"state"`
}
