package user

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Profile is the users/{uid} document. The four affinity lists are sets
// maintained with the store's array union/remove transforms.
type Profile struct {
	UID                  string    `json:"uid"`
	DisplayName          string    `json:"displayName"`
	Email                string    `json:"email"`
	PhotoURL             string    `json:"photoURL,omitempty"`
	Role                 Role      `json:"role"`
	LikedVideos          []string  `json:"likedVideoIds"`
	LikedCategories      []string  `json:"likedCategoryTitles"`
	SavedShorts          []string  `json:"savedShortIds"`
	RecentlyViewedShorts []string  `json:"recentlyViewedShortIds"`
	CreatedAt            time.Time `json:"createdAt,omitempty"`
}

func (p *Profile) IsAdmin() bool { return p != nil && p.Role == RoleAdmin }

// AffinityList names one of the profile's reference lists by its document field.
type AffinityList string

const (
	LikedVideos          AffinityList = "likedVideoIds"
	LikedCategories      AffinityList = "likedCategoryTitles"
	SavedShorts          AffinityList = "savedShortIds"
	RecentlyViewedShorts AffinityList = "recentlyViewedShortIds"
)

func (p *Profile) List(l AffinityList) []string {
	switch l {
	case LikedVideos:
		return p.LikedVideos
	case LikedCategories:
		return p.LikedCategories
	case SavedShorts:
		return p.SavedShorts
	case RecentlyViewedShorts:
		return p.RecentlyViewedShorts
	}
	return nil
}
