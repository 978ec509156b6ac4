// Package keys names the cache identities shared by screens and forms so
// that a mutation invalidates exactly what the screens subscribe to.
package keys

import "github.com/dmitrijs2005/homepoint/internal/client/querycache"

const (
	ResourceProjects            = "projects"
	ResourceZonesLaunches       = "zones-launches"
	ResourceReviews             = "reviews"
	ResourceUsers               = "users"
	ResourceUser                = "user"
	ResourceMaster              = "master"
	ResourceDomains             = "domains"
	ResourcePaymentList         = "paymentlist"
	ResourceAssociateDevelopers = "associatedeveloper"
	ResourceHero                = "homehero"
	ResourceAbout               = "homeabout"
	ResourceCounts              = "counts"
	ResourceAmenities           = "amenities"
)

var (
	Projects      = querycache.K(ResourceProjects)
	ZonesLaunches = querycache.K(ResourceZonesLaunches)
	Reviews       = querycache.K(ResourceReviews)
	Users         = querycache.K(ResourceUsers)
	Master        = querycache.K(ResourceMaster)
	Domains       = querycache.K(ResourceDomains)
	Hero          = querycache.K(ResourceHero)
	About         = querycache.K(ResourceAbout)

	ProjectsCount       = querycache.K(ResourceCounts, "projects")
	UsersCount          = querycache.K(ResourceCounts, "users")
	ActiveDomainsCount  = querycache.K(ResourceCounts, "active-domains")
	ExpiredDomainsCount = querycache.K(ResourceCounts, "expired-domains")
)

func User(id string) querycache.Key { return querycache.K(ResourceUser, id) }

// Project is the per-id key of a project. querycache.Prefix(ResourceProjects)
// covers it together with the list.
func Project(id string) querycache.Key { return querycache.K(ResourceProjects, id) }

// Gallery returns the list key of an image-list resource.
func Gallery(resource string) querycache.Key { return querycache.K(resource) }

// GalleryItem is the key of one record of an image-list resource; it shares
// the Resource of the list key so querycache.Prefix(resource) covers both.
func GalleryItem(resource, id string) querycache.Key { return querycache.K(resource, id) }
