// Package presets keeps a user's named filter snapshots for one screen and
// persists them next to the live filter record.
package presets
