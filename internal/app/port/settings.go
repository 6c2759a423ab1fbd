package port

import "github.com/panoramablock/rwasync/internal/domain/entity"

// SettingsProvider exposes the current settings to components that build
// network endpoints from them. One instance exists per running process.
type SettingsProvider interface {
	Current() entity.Settings
}

// SettingsService is the full settings lifecycle: load-on-start,
// mutate-on-edit, reset-to-defaults on demand.
type SettingsService interface {
	SettingsProvider
	Update(patch entity.SettingsPatch) (entity.Settings, error)
	Reset() (entity.Settings, error)
}
