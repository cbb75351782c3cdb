package texture

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/objloader/pkg/wavefront"
)

// BindModel loads every texture path recorded in the model's materials and
// stores the resulting handles back into them. Call it after wavefront.Load
// has returned, never concurrently with it.
//
// With skipMissing set, textures that fail to decode keep handle 0 and are
// returned combined as a non-nil error alongside the bound model; otherwise
// the first failure is returned and binding stops.
func BindModel(model *wavefront.Model, m *Manager, skipMissing bool) error {
	var errs error
	for i := 0; i < model.MaterialCount(); i++ {
		mat := model.MaterialByIndex(i)
		for slot := wavefront.TextureType(0); slot < wavefront.TextureTypeCount; slot++ {
			if !mat.HasTexture(slot) {
				continue
			}
			path := mat.TexturePaths[slot]
			h, err := m.Load(path)
			if err != nil {
				err = fmt.Errorf("material %q %s texture: %w", mat.Name, slot, err)
				if !skipMissing {
					return err
				}
				m.log.Warn("texture unavailable", zap.Error(err))
				errs = multierr.Append(errs, err)
				continue
			}
			mat.TextureHandles[slot] = h
		}
	}
	return errs
}

// ReleaseModel drops the references BindModel took and zeroes the handles.
func ReleaseModel(model *wavefront.Model, m *Manager) {
	for i := 0; i < model.MaterialCount(); i++ {
		mat := model.MaterialByIndex(i)
		for slot := range mat.TextureHandles {
			if h := mat.TextureHandles[slot]; h != 0 {
				m.Release(h)
				mat.TextureHandles[slot] = 0
			}
		}
	}
}
