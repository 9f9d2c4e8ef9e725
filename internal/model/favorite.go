package model

// Favorite is the join row marking an ad as a favorite of a person. The pair
// (PersonID, AdID) is the primary key, so at most one row exists per pair.
// Favorites are created and deleted only by the owning person.
type Favorite struct {
	PersonID uint64 `json:"personId"`
	AdID     uint64 `json:"adId"`
}
