package revalidate

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/ryanolv/doctor-agenda/pkg/metrics"
)

// Paths the presentation layer renders from cached read models.
const (
	PathAppointments = "/appointments"
	PathDashboard    = "/dashboard"
	PathDoctors      = "/doctors"
	PathPatients     = "/patients"
	PathClinic       = "/clinic"
)

// ViewCache holds read models per clinic and path until they expire or are revalidated.
type ViewCache struct {
	c       *cache.Cache
	metrics *metrics.Metrics
}

func NewViewCache(ttl, cleanupInterval time.Duration, m *metrics.Metrics) *ViewCache {
	return &ViewCache{
		c:       cache.New(ttl, cleanupInterval),
		metrics: m,
	}
}

func cacheKey(clinicID uuid.UUID, path string) string {
	return clinicID.String() + ":" + path
}

func (v *ViewCache) Get(clinicID uuid.UUID, path string) (interface{}, bool) {
	value, ok := v.c.Get(cacheKey(clinicID, path))
	v.metrics.CacheLookup(ok)
	return value, ok
}

func (v *ViewCache) Set(clinicID uuid.UUID, path string, value interface{}) {
	v.c.SetDefault(cacheKey(clinicID, path), value)
}

func (v *ViewCache) Evict(clinicID uuid.UUID, path string) {
	v.c.Delete(cacheKey(clinicID, path))
}
