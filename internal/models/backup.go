package models

import "time"

// BackupInfo describes one snapshot file on disk.
type BackupInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// RestoreReport summarises the outcome of a snapshot restore: which stores
// were overwritten and which snapshot keys were skipped because they were
// absent or had an unexpected shape. Restore is partial by design, so a
// skipped key is an expected outcome rather than an error.
type RestoreReport struct {
	Restored []string `json:"restored"`
	Skipped  []string `json:"skipped"`
}

// CleanupReport summarises a settings cleanup pass.
type CleanupReport struct {
	// SettingsRemoved is the number of duplicate setting rows dropped.
	SettingsRemoved int `json:"settings_removed"`

	// SettingsSanitized is the number of surviving settings whose values
	// had credential-like sub-fields blanked.
	SettingsSanitized int `json:"settings_sanitized"`

	// AuditBodiesMasked is the number of historical audit entries whose
	// bodies were retroactively re-masked.
	AuditBodiesMasked int `json:"audit_bodies_masked"`
}
