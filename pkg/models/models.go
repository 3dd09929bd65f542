package models

import "time"

// Role values stored on users. A role is assigned once: the first
// transition away from pending is terminal.
const (
	RolePending = "pending"
	RoleAthlete = "athlete"
	RoleCoach   = "coach"
)

// PDNVersion is the data-processing policy version reported to clients.
const PDNVersion = "v1.0"

// SessionTTL is how long an issued session token stays valid.
const SessionTTL = 14 * 24 * time.Hour

// Access is what a valid session resolves to.
type Access struct {
	UserID      int64  `json:"user_id"`
	Role        string `json:"role"`
	PDNRequired bool   `json:"pdn_required"`
}

// LoginResult is the response of a successful platform login.
type LoginResult struct {
	SessionToken string `json:"session_token"`
	Role         string `json:"role"`
	PDNRequired  bool   `json:"pdn_required"`
	PDNVersion   string `json:"pdn_version"`
}

// Profile carries the optional descriptive fields. Pointers distinguish
// stored-but-empty from absent; unmapped columns stay nil.
type Profile struct {
	FullName        *string  `json:"full_name,omitempty"`
	Phone           *string  `json:"phone,omitempty"`
	HeightCM        *float64 `json:"height_cm,omitempty"`
	WeightKG        *float64 `json:"weight_kg,omitempty"`
	Goal            *string  `json:"goal,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	Bio             *string  `json:"bio,omitempty"`
	ExperienceYears *int64   `json:"experience_years,omitempty"`
	Instagram       *string  `json:"instagram,omitempty"`
	TelegramChannel *string  `json:"telegram_channel,omitempty"`
	TelegramLink    *string  `json:"telegram_link,omitempty"`
}

// ProfileView is the GET /api/profile payload.
type ProfileView struct {
	Role        string  `json:"role"`
	PDNRequired bool    `json:"pdn_required"`
	Profile     Profile `json:"profile"`
}

// ConsentReceipt acknowledges a recorded consent response.
type ConsentReceipt struct {
	OK      bool      `json:"ok"`
	Version string    `json:"version"`
	TS      time.Time `json:"ts"`
}
