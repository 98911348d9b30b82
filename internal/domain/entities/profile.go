package entities

// Role is the account kind chosen at signup
type Role string

const (
	RoleFarmer   Role = "FARMER"
	RolePersonal Role = "PERSONAL"
)

// Profile represents the signed-in user's profile
type Profile struct {
	UserID           int64      `json:"userId"`
	Email            string     `json:"email"`
	Nickname         string     `json:"nickname"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone"`
	Role             Role       `json:"role"`
	Bio              string     `json:"bio,omitempty"`
	MarketingConsent bool       `json:"marketingConsent"`
	UpdatedAt        *Timestamp `json:"updatedAt,omitempty"`
}

// IsFarmer reports whether the profile owns farms
func (p *Profile) IsFarmer() bool {
	return p != nil && p.Role == RoleFarmer
}

// SignupRequest is the body of POST /auth/signup
type SignupRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Nickname         string `json:"nickname"`
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	Role             Role   `json:"role"`
	MarketingConsent bool   `json:"marketingConsent"`
}

// ProfileUpdate is the body of PUT /profile/me; nil fields are left unchanged
type ProfileUpdate struct {
	Nickname         *string `json:"nickname,omitempty"`
	Name             *string `json:"name,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Bio              *string `json:"bio,omitempty"`
	MarketingConsent *bool   `json:"marketingConsent,omitempty"`
	Password         *string `json:"password,omitempty"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token handed out next to the session cookie
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Nickname string `json:"nickname"`
}

// NicknameCheck is the answer of GET /profile/check-nickname
type NicknameCheck struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
}

// PasswordCheck is the answer of POST /profile/verify-password
type PasswordCheck struct {
	Valid bool `json:"valid"`
}
