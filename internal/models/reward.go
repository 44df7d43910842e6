package models

import "time"

// RewardCategory is the catalog category used by the admin-facing
// reward management endpoints.
type RewardCategory string

const (
	CategoryVouchers      RewardCategory = "Vouchers"
	CategoryDiscounts     RewardCategory = "Discounts"
	CategoryMerchandise   RewardCategory = "Merchandise"
	CategoryRecognition   RewardCategory = "Recognition"
	CategorySpecialAccess RewardCategory = "Special Access"
)

// BrowseCategories lists the category values accepted by the browse
// filter. The backend contract exposes a different set here than the
// catalog one above; the two are kept separate on purpose until the
// backend reconciles them.
var BrowseCategories = []string{"general", "gift-card", "voucher", "discount", "merchandise"}

// ValidRewardCategory reports whether c is a known catalog category.
func ValidRewardCategory(c RewardCategory) bool {
	switch c {
	case CategoryVouchers, CategoryDiscounts, CategoryMerchandise, CategoryRecognition, CategorySpecialAccess:
		return true
	}
	return false
}

// Reward is a redeemable catalog entry.
type Reward struct {
	ID          string         `json:"_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	PointsCost  int            `json:"pointsCost"`
	Category    RewardCategory `json:"category"`
	IsActive    bool           `json:"isActive"`
	Image       string         `json:"image,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// RedemptionCode is one issued code inside a redemption record.
type RedemptionCode struct {
	Code       string    `json:"code"`
	RedeemedAt time.Time `json:"redeemedAt"`
}

// Redemption is a user's redeemed reward: a snapshot of the reward at
// redemption time plus the codes issued for it. Append-only from the
// client's point of view.
type Redemption struct {
	ID          string           `json:"_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	PointsCost  int              `json:"pointsCost"`
	Reward      *Reward          `json:"reward,omitempty"`
	Redemptions []RedemptionCode `json:"redemptions"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// RewardInput is the admin form for creating or editing a reward.
type RewardInput struct {
	Title       string         `json:"title" validate:"required,max=100"`
	Description string         `json:"description" validate:"required,max=1000"`
	PointsCost  int            `json:"pointsCost" validate:"gte=0"`
	Category    RewardCategory `json:"category" validate:"required"`
	IsActive    bool           `json:"isActive"`
	Image       string         `json:"image,omitempty"`
}
