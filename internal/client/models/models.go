// Package models holds the wire types exchanged with the admin API.
package models

type Address struct {
	RegisteredOffice string `json:"registeredOffice"`
	MarketingOffice  string `json:"marketingOffice"`
}

// Master is the site-wide contact and branding record. Logo is a PNG data
// URI.
type Master struct {
	ID         string   `json:"_id,omitempty"`
	Logo       string   `json:"logo,omitempty"`
	Email      string   `json:"email"`
	Address    Address  `json:"address"`
	Rera       string   `json:"rera"`
	PrivyarAPI string   `json:"privyarApi"`
	Phone      []string `json:"phone"`
	Facebook   string   `json:"facebook"`
	Instagram  string   `json:"instagram"`
	Linkedin   string   `json:"linkedin"`
	Youtube    string   `json:"youtube"`
}

// Amenity is an amenity tile uploaded as multipart form data.
type Amenity struct {
	ID    string `json:"_id,omitempty"`
	Title string `json:"title"`
	Image string `json:"image,omitempty"`
}

type Review struct {
	ID      string `json:"_id,omitempty"`
	Name    string `json:"name"`
	Image   string `json:"image,omitempty"`
	Work    string `json:"work"`
	Message string `json:"message"`
}

type User struct {
	ID           string `json:"_id,omitempty"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	ProfileImage string `json:"profileImage,omitempty"`
	Password     string `json:"password,omitempty"`
}

type HeroStats struct {
	Brokerage   string `json:"brokerage"`
	Projects    string `json:"projects"`
	Developers  string `json:"developers"`
	HappyClient string `json:"happyClient"`
}

// Hero is the home page banner.
type Hero struct {
	ID       string    `json:"_id,omitempty"`
	Image    string    `json:"image"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	Value    HeroStats `json:"value"`
}

type About struct {
	ID          string `json:"_id,omitempty"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// Gallery is an image list record. Payment lists and associate developers
// share this shape; images are bare base64 payloads.
type Gallery struct {
	ID     string   `json:"_id,omitempty"`
	Images []string `json:"images"`
}

type Zone struct {
	Title  string   `json:"title"`
	Image  []string `json:"image"`
	Active bool     `json:"active"`
}

type ProjectHero struct {
	Title      string   `json:"title"`
	Tagline    string   `json:"tagline"`
	HeroImages []string `json:"hero_images"`
}

// Project is the list view of a project. The full record is nested and is
// created from a free-form payload.
type Project struct {
	ID           string      `json:"_id,omitempty"`
	ProjectName  string      `json:"project_name"`
	FreshProject bool        `json:"fresh_project"`
	Development  bool        `json:"development"`
	Hero         ProjectHero `json:"hero"`
	Zones        []Zone      `json:"zones"`
}

// ZoneLaunch is one entry of the zones-launches listing.
type ZoneLaunch struct {
	ID          string `json:"_id,omitempty"`
	ProjectName string `json:"project_name,omitempty"`
	Zones       []Zone `json:"zones"`
}

type LoginResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token"`
	UserName string `json:"userName"`
	Message  string `json:"message,omitempty"`
}

// StatusResponse is the generic {success, message} reply.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Counts aggregates the dashboard counters.
type Counts struct {
	ActiveDomains  int64
	ExpiredDomains int64
	Projects       int64
	Users          int64
}
