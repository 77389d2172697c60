package models

type User struct {
	BaseModel
	Email              string     `gorm:"uniqueIndex;not null" json:"email"`
	Name               string     `gorm:"not null;default:''" json:"name"`
	PasswordHash       string     `gorm:"not null" json:"-"`
	Role               UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	Status             UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	SubscriptionPlan   PlanID     `gorm:"type:varchar(64);not null;default:'free'" json:"subscriptionPlan"`
	FeaturedCredits    int        `gorm:"not null;default:0" json:"featuredCredits"`
	UsedCertifications int        `gorm:"not null;default:0" json:"usedCertifications"`
}

// CurrentPlan returns the subscription plan id, falling back to free.
func (u *User) CurrentPlan() PlanID {
	if u.SubscriptionPlan == "" {
		return PlanFree
	}
	return u.SubscriptionPlan
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

func (u *User) IsSeller() bool {
	return u.Role == UserRoleSeller
}

// DisplayName is the name shown to admins, the email when no name is set.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

type RegisterUserRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Name     string   `json:"name" validate:"required,max=100"`
	Password string   `json:"password" validate:"required,min=8"`
	Role     UserRole `json:"role" validate:"required,is-user-role,ne=admin"`
}

// Entitlements summarises what a seller's plan allows and how much is used.
type Entitlements struct {
	Email              string `json:"email"`
	Plan               Plan   `json:"plan"`
	ActiveListings     int64  `json:"activeListings"`
	ListingLimit       int    `json:"listingLimit"`
	CanAddListing      bool   `json:"canAddListing"`
	FeaturedCredits    int    `json:"featuredCredits"`
	UsedCertifications int    `json:"usedCertifications"`
	CertificationLimit int    `json:"certificationLimit"`
}
