// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist conversion:
//  1. [LoadingView] : Fetch source playlist metadata
//  2. [ConfirmView] : Confirm the conversion before any searches run
//  3. [ConvertView] : Monitor real-time progress updates
//  4. [ResultView] : Browse match results and confidence buckets
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the ConversionEngine, providing non-blocking status reporting during conversion.
//
// Keyboard navigation uses vim-style bindings (j/k, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
