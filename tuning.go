package main

import (
	"log"

	"github.com/milk9111/locomotion/prefabs"
	"github.com/quasilyte/gdata"
)

const tuningKey = "tuning"

// tuningStore keeps the last saved character spec in the user data dir so
// a tuning session survives restarts. A nil manager turns every call into
// a no-op.
type tuningStore struct {
	manager *gdata.Manager
}

func openTuningStore() *tuningStore {
	m, err := gdata.Open(gdata.Config{
		AppName: "locomotion",
	})
	if err != nil {
		log.Printf("tuning: persistence disabled: %v", err)
		return &tuningStore{}
	}
	return &tuningStore{manager: m}
}

// Load returns the saved spec, or nil when nothing usable was saved.
func (s *tuningStore) Load() *prefabs.CharacterSpec {
	if s == nil || s.manager == nil {
		return nil
	}
	data, err := s.manager.LoadItem(tuningKey)
	if err != nil {
		log.Printf("tuning: load: %v", err)
		return nil
	}
	if data == nil {
		return nil
	}
	spec, err := prefabs.ParseCharacterSpec(data)
	if err != nil {
		log.Printf("tuning: saved spec ignored: %v", err)
		return nil
	}
	return spec
}

func (s *tuningStore) Save(spec *prefabs.CharacterSpec) error {
	if s == nil || s.manager == nil {
		return nil
	}
	data, err := prefabs.MarshalCharacterSpec(spec)
	if err != nil {
		return err
	}
	return s.manager.SaveItem(tuningKey, data)
}
