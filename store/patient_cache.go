package store

import (
	"container/list"
	"sync"

	"github.com/ariebrainware/clinic-appointment/model"
)

const defaultPatientCacheSize = 1000

type patientEntry struct {
	id      string
	patient model.Patient
}

// patientLRU caches patients for worklist projection, where the same patient
// is looked up once per appointment card.
type patientLRU struct {
	mu       sync.Mutex
	ll       *list.List
	cache    map[string]*list.Element
	capacity int
}

// newPatientLRU uses a default capacity of 1000 when capacity <= 0.
func newPatientLRU(capacity int) *patientLRU {
	if capacity <= 0 {
		capacity = defaultPatientCacheSize
	}
	return &patientLRU{
		ll:       list.New(),
		cache:    make(map[string]*list.Element),
		capacity: capacity,
	}
}

func (c *patientLRU) get(id string) (model.Patient, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, ok := c.cache[id]; ok {
		c.ll.MoveToFront(ele)
		if e, ok := ele.Value.(patientEntry); ok {
			return e.patient, true
		}
	}
	return model.Patient{}, false
}

func (c *patientLRU) set(p model.Patient) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, ok := c.cache[p.ID]; ok {
		c.ll.MoveToFront(ele)
		ele.Value = patientEntry{id: p.ID, patient: p}
		return
	}
	ele := c.ll.PushFront(patientEntry{id: p.ID, patient: p})
	c.cache[p.ID] = ele
	if c.ll.Len() > c.capacity {
		// evict least recently used
		if tail := c.ll.Back(); tail != nil {
			if e, ok := tail.Value.(patientEntry); ok {
				delete(c.cache, e.id)
			}
			c.ll.Remove(tail)
		}
	}
}

func (c *patientLRU) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
