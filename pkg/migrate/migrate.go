// Package migrate performs upgrade work between binary versions. Fixups
// are idempotent and safe to run on every start.
package migrate

import (
	"context"

	"parley/pkg/logger"
	"parley/pkg/models"
	"parley/pkg/store"
)

// Sync runs pending fixups and records the new version.
func Sync(ctx context.Context, to string) error {
	from, err := store.Version()
	if err != nil {
		return err
	}
	logger.Info("migrate_sync_start", "from", from, "to", to)

	err = store.Update(func(s *models.Snapshot) error {
		repairIDCounter(s)
		ensureReactSlots(s)
		return nil
	})
	if err != nil {
		logger.Error("migrate_sync_failed", "error", err)
		return err
	}

	if err := store.SetVersion(to); err != nil {
		return err
	}
	logger.Info("migrate_sync_done", "from", from, "to", to)
	return nil
}

// repairIDCounter bumps the id counter past every id in the dataset.
// Guards against restores from a snapshot whose meta section lagged the
// data sections.
func repairIDCounter(s *models.Snapshot) {
	max := int64(-1)
	bump := func(id int64) {
		if id > max {
			max = id
		}
	}
	for i := range s.Channels {
		bump(s.Channels[i].ID)
		for j := range s.Channels[i].Messages {
			bump(s.Channels[i].Messages[j].ID)
		}
	}
	for i := range s.DMs {
		bump(s.DMs[i].ID)
		for j := range s.DMs[i].Messages {
			bump(s.DMs[i].Messages[j].ID)
		}
	}
	if s.IDCounter <= max {
		logger.Info("migrate_idcounter_repaired", "was", s.IDCounter, "now", max+1)
		s.IDCounter = max + 1
	}
}

// ensureReactSlots backfills the default react slot on messages written
// before reacts existed.
func ensureReactSlots(s *models.Snapshot) {
	fix := func(msgs []models.Message) {
		for i := range msgs {
			if msgs[i].React(models.DefaultReactID) == nil {
				msgs[i].Reacts = append(msgs[i].Reacts, models.React{
					ReactID: models.DefaultReactID,
					UIDs:    []models.ReactEntry{},
				})
			}
		}
	}
	for i := range s.Channels {
		fix(s.Channels[i].Messages)
	}
	for i := range s.DMs {
		fix(s.DMs[i].Messages)
	}
}
