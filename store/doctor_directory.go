package store

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ariebrainware/clinic-appointment/model"
)

const defaultDoctorCacheTTL = 5 * time.Minute

// DoctorFilter narrows the doctor directory. Empty fields match everything.
type DoctorFilter struct {
	Field   model.MedicalField
	Keyword string
}

func (f DoctorFilter) cacheKey() string {
	return "list:" + string(f.Field) + "|" + strings.ToLower(strings.TrimSpace(f.Keyword))
}

// doctorDirectory caches doctor listings and profiles. Registrations are
// rare next to directory reads, so a new doctor flushes everything.
type doctorDirectory struct {
	c *cache.Cache
}

func newDoctorDirectory(ttl time.Duration) *doctorDirectory {
	if ttl <= 0 {
		ttl = defaultDoctorCacheTTL
	}
	return &doctorDirectory{c: cache.New(ttl, 2*ttl)}
}

func (d *doctorDirectory) list(f DoctorFilter) ([]model.Doctor, bool) {
	v, ok := d.c.Get(f.cacheKey())
	if !ok {
		return nil, false
	}
	doctors, ok := v.([]model.Doctor)
	return doctors, ok
}

func (d *doctorDirectory) setList(f DoctorFilter, doctors []model.Doctor) {
	d.c.SetDefault(f.cacheKey(), doctors)
}

func (d *doctorDirectory) doctor(id string) (model.Doctor, bool) {
	v, ok := d.c.Get("id:" + id)
	if !ok {
		return model.Doctor{}, false
	}
	doc, ok := v.(model.Doctor)
	return doc, ok
}

func (d *doctorDirectory) setDoctor(doc model.Doctor) {
	d.c.SetDefault("id:"+doc.ID, doc)
}

func (d *doctorDirectory) flush() {
	d.c.Flush()
}
