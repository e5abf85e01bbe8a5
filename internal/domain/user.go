package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
	// RoleMember grants standard user access.
	RoleMember Role = "member"
)

// UserStatus represents the user's account status.
type UserStatus string

const (
	// UserStatusActive indicates the user can log in and use the system.
	UserStatusActive UserStatus = "active"
	// UserStatusPending indicates the user is awaiting admin approval.
	UserStatusPending UserStatus = "pending"
)

// User represents an authenticated user account in the system.
type User struct {
	Syncable
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	IsRoot       bool       `json:"is_root"`
	Role         Role       `json:"role"`             // admin or member
	Status       UserStatus `json:"status,omitempty"` // active or pending (empty = active for backward compat)
	ApprovedBy   string     `json:"approved_by,omitempty"`
	ApprovedAt   time.Time  `json:"approved_at,omitempty"`
	DisplayName  string     `json:"display_name"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	LastLoginAt  time.Time  `json:"last_login_at"`
}

// IsAdmin returns true if the user has administrative privileges.
// Root users are automatically admins, regardless of their role field.
func (u *User) IsAdmin() bool {
	return u.IsRoot || u.Role == RoleAdmin
}

// IsActive returns true if the user can log in and use the system.
// Empty status is treated as active for backward compatibility with existing users.
func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == UserStatusActive
}

// IsPending returns true if the user is awaiting admin approval.
func (u *User) IsPending() bool {
	return u.Status == UserStatusPending
}

// FullName returns the user's full name, composed from first and last names.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.DisplayName
	}
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Name returns the best available name to display for the user.
// Prefers DisplayName, falls back to FullName, then email.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	fullName := u.FullName()
	if fullName != "" {
		return fullName
	}
	return u.Email
}

// Session represents an active user session with refresh token.
// Each device gets its own session - you can see what's connected.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash,omitempty"` // Stored hashed, filter from API responses
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	IPAddress        string    `json:"ip_address,omitempty"`

	// Device information - structured data from client
	DeviceType      string `json:"device_type"`           // mobile, tablet, desktop, web, tv
	Platform        string `json:"platform"`              // iOS, Android, Windows, macOS, Linux, Web
	PlatformVersion string `json:"platform_version"`      // 17.2, 14.0, 11, etc.
	ClientName      string `json:"client_name"`           // PlayDeck Mobile, PlayDeck Web
	ClientVersion   string `json:"client_version"`        // 1.0.0
	DeviceName      string `json:"device_name,omitempty"` // Sam's iPhone (optional, user-set)
}

// Touch updates the session's last seen timestamp.
func (s *Session) Touch() {
	s.LastSeenAt = time.Now()
}

// IsExpired checks if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// DisplayName returns a human-readable description of the device.
func (s *Session) DisplayName() string {
	if s.DeviceName != "" {
		return s.DeviceName
	}

	if s.Platform != "" {
		// "iOS 17.2"
		if s.PlatformVersion != "" {
			return s.Platform + " " + s.PlatformVersion
		}
		// "iOS"
		return s.Platform
	}

	// "PlayDeck Mobile 1.0.0"
	if s.ClientVersion != "" {
		return s.ClientName + " " + s.ClientVersion
	}

	// "PlayDeck Mobile"
	if s.ClientName != "" {
		return s.ClientName
	}

	return "Unknown Device"
}
