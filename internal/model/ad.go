package model

import "time"

// Category is a reference row from the `categories` table (e.g. Electronics).
type Category struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// AdType is a reference row from the `ad_types` table (e.g. Sell, Buy, Rent).
type AdType struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Ad represents an advertisement. PersonID is set from the verified claims of
// the creating request and is immutable afterwards; update operations never
// touch it. CategoryName, AdTypeName and PersonName are joined from the
// reference tables when reading and are not columns of `ads`.
type Ad struct {
	ID           uint64    `json:"id"`
	Price        int64     `json:"price"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	City         string    `json:"city"`
	PostedDate   time.Time `json:"postedDate"`
	CategoryID   uint64    `json:"categoryId"`
	PersonID     uint64    `json:"personId"`
	AdTypeID     uint64    `json:"adTypeId"`
	PhotoName    string    `json:"photoName"`
	CategoryName string    `json:"category,omitempty"`
	AdTypeName   string    `json:"adType,omitempty"`
	PersonName   string    `json:"personName,omitempty"`

	// IsFavorite is filled for authenticated callers on single-ad lookups.
	IsFavorite bool `json:"isFavorite"`
}
