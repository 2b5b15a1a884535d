// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view workflow for browsing and contributing council finance data:
//  1. [CarouselView] : Rotating insight display for one subject, driven by the playlist controller
//  2. [SheetView] : Inline editing of the subject's data fields with tab navigation
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern. Controller
// frames arrive over a channel so timer-driven transitions surface as ordinary messages, and
// saves run as commands so keystrokes are never blocked on the network.
//
// Space toggles playback (the hover-to-pause analog), ←/→ navigate manually, and a suspect
// monetary value opens a disambiguation prompt before anything is submitted. Transient
// toasts auto-dismiss; only the destructive moderation delete asks for confirmation.
package ui
