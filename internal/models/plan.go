package models

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// PlanID identifies a subscription plan: one of the built-in tiers or an
// admin-created custom id.
type PlanID string

const (
	PlanFree    PlanID = "free"
	PlanPro     PlanID = "pro"
	PlanPremium PlanID = "premium"
)

// UnlimitedListings is the ListingLimit sentinel for "no cap".
const UnlimitedListings = -1

// MaxCatalogPlans caps how many plans the catalog may hold at once.
const MaxCatalogPlans = 4

var planIDPattern = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

func (id PlanID) IsBuiltIn() bool {
	switch id {
	case PlanFree, PlanPro, PlanPremium:
		return true
	}
	return false
}

// IsValid checks id syntax only; it says nothing about existence.
func (id PlanID) IsValid() bool {
	return planIDPattern.MatchString(string(id))
}

func (id PlanID) String() string {
	return string(id)
}

// NewCustomPlanID returns a fresh id of the form custom_<8 hex>.
func NewCustomPlanID() PlanID {
	return PlanID("custom_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

type Plan struct {
	ID                 PlanID   `json:"id"`
	Name               string   `json:"name"`
	Price              int64    `json:"price"`
	ListingLimit       int      `json:"listingLimit"`
	FeaturedCredits    int      `json:"featuredCredits"`
	FreeCertifications int      `json:"freeCertifications"`
	Features           []string `json:"features"`
	IsPopular          bool     `json:"isPopular"`
}

func (p Plan) IsUnlimited() bool {
	return p.ListingLimit == UnlimitedListings
}

// IsBillable is false for free tiers; those are never purchased.
func (p Plan) IsBillable() bool {
	return p.Price > 0
}

// AllowsListing reports whether a seller with activeListings may add one more.
func (p Plan) AllowsListing(activeListings int64) bool {
	return p.IsUnlimited() || activeListings < int64(p.ListingLimit)
}

func IsValidListingLimit(limit int) bool {
	return limit == UnlimitedListings || limit >= 1
}

var builtInPlans = []Plan{
	{
		ID:                 PlanFree,
		Name:               "Free",
		Price:              0,
		ListingLimit:       3,
		FeaturedCredits:    0,
		FreeCertifications: 0,
		Features:           []string{"Up to 3 active listings", "Basic listing analytics", "Email support"},
	},
	{
		ID:                 PlanPro,
		Name:               "Pro",
		Price:              999,
		ListingLimit:       25,
		FeaturedCredits:    5,
		FreeCertifications: 2,
		Features:           []string{"Up to 25 active listings", "5 featured credits", "2 free vehicle certifications", "Priority support"},
		IsPopular:          true,
	},
	{
		ID:                 PlanPremium,
		Name:               "Premium",
		Price:              2499,
		ListingLimit:       UnlimitedListings,
		FeaturedCredits:    15,
		FreeCertifications: 5,
		Features:           []string{"Unlimited listings", "15 featured credits", "5 free vehicle certifications", "Dedicated account manager"},
	},
}

// BuiltInPlans returns copies of the built-in tiers in declaration order.
func BuiltInPlans() []Plan {
	plans := make([]Plan, len(builtInPlans))
	for i, p := range builtInPlans {
		plans[i] = p.clone()
	}
	return plans
}

func BuiltInPlan(id PlanID) (Plan, bool) {
	for _, p := range builtInPlans {
		if p.ID == id {
			return p.clone(), true
		}
	}
	return Plan{}, false
}

func (p Plan) clone() Plan {
	if p.Features != nil {
		p.Features = append([]string(nil), p.Features...)
	}
	return p
}

// PlanOverride is a partial plan. Nil fields are unset; a nil Features slice
// is unset while an empty one clears the list.
type PlanOverride struct {
	Name               *string  `json:"name,omitempty"`
	Price              *int64   `json:"price,omitempty"`
	ListingLimit       *int     `json:"listingLimit,omitempty" validate:"omitempty,is-listing-limit"`
	FeaturedCredits    *int     `json:"featuredCredits,omitempty"`
	FreeCertifications *int     `json:"freeCertifications,omitempty"`
	Features           []string `json:"features"`
	IsPopular          *bool    `json:"isPopular,omitempty"`
}

// IsEmpty reports whether no field of o is set.
func (o PlanOverride) IsEmpty() bool {
	return o.Name == nil && o.Price == nil && o.ListingLimit == nil &&
		o.FeaturedCredits == nil && o.FreeCertifications == nil &&
		o.Features == nil && o.IsPopular == nil
}

// Merge returns o with every field set in patch replaced.
func (o PlanOverride) Merge(patch PlanOverride) PlanOverride {
	if patch.Name != nil {
		o.Name = patch.Name
	}
	if patch.Price != nil {
		o.Price = patch.Price
	}
	if patch.ListingLimit != nil {
		o.ListingLimit = patch.ListingLimit
	}
	if patch.FeaturedCredits != nil {
		o.FeaturedCredits = patch.FeaturedCredits
	}
	if patch.FreeCertifications != nil {
		o.FreeCertifications = patch.FreeCertifications
	}
	if patch.Features != nil {
		o.Features = append([]string{}, patch.Features...)
	}
	if patch.IsPopular != nil {
		o.IsPopular = patch.IsPopular
	}
	return o
}

// ApplyTo overlays the set fields of o onto base.
func (o PlanOverride) ApplyTo(base Plan) Plan {
	p := base.clone()
	if o.Name != nil {
		p.Name = *o.Name
	}
	if o.Price != nil {
		p.Price = *o.Price
	}
	if o.ListingLimit != nil {
		p.ListingLimit = *o.ListingLimit
	}
	if o.FeaturedCredits != nil {
		p.FeaturedCredits = *o.FeaturedCredits
	}
	if o.FreeCertifications != nil {
		p.FreeCertifications = *o.FreeCertifications
	}
	if o.Features != nil {
		p.Features = append([]string{}, o.Features...)
	}
	if o.IsPopular != nil {
		p.IsPopular = *o.IsPopular
	}
	return p
}

// ToPlan materialises a custom plan that has no built-in counterpart.
// Unset limits default to the most restrictive values.
func (o PlanOverride) ToPlan(id PlanID) Plan {
	base := Plan{ID: id, ListingLimit: 1, Features: []string{}}
	return o.ApplyTo(base)
}

// CreatePlanRequest carries a complete custom plan definition.
type CreatePlanRequest struct {
	Name               string   `json:"name"`
	Price              int64    `json:"price"`
	ListingLimit       int      `json:"listingLimit" validate:"is-listing-limit"`
	FeaturedCredits    int      `json:"featuredCredits"`
	FreeCertifications int      `json:"freeCertifications"`
	Features           []string `json:"features"`
	IsPopular          bool     `json:"isPopular"`
}

// AsOverride stores a full definition as an override with every field set.
func (r CreatePlanRequest) AsOverride() PlanOverride {
	name := strings.TrimSpace(r.Name)
	price := r.Price
	limit := r.ListingLimit
	credits := r.FeaturedCredits
	certs := r.FreeCertifications
	popular := r.IsPopular
	features := r.Features
	if features == nil {
		features = []string{}
	}
	return PlanOverride{
		Name:               &name,
		Price:              &price,
		ListingLimit:       &limit,
		FeaturedCredits:    &credits,
		FreeCertifications: &certs,
		Features:           append([]string{}, features...),
		IsPopular:          &popular,
	}
}
