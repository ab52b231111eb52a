// Package engine implements the Host API surface (New, LoadPreset, Resize,
// Tick, SetBeatMode, CurrentTexture) that a CLI or GUI driver embeds. The
// driver process itself — argument parsing, window/event loop, GPU device
// creation — is out of scope for this module (spec.md §1); this file records
// the contract a collaborator implementing that driver must honor so the
// two sides agree without either depending on the other.
//
// Exit codes (spec.md §6):
//
//	0  success
//	2  preset parse error
//	3  I/O error (preset file, audio device)
//	4  GPU init error
//
// Environment variables (spec.md §6), read by the driver and passed through
// untouched by this package:
//
//	RUST_LOG, LOG_LEVEL   verbosity for the driver's own logging
//	MTL_HUD_ENABLED       and other platform-specific GPU debug flags
package engine
