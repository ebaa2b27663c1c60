// Package ui provides the terminal components of the RTI chat client.
//
// # Layout
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line)                                     │
//	├─────────────────┬───────────────────────────────────┤
//	│                 │  Message thread                   │
//	│   Sidebar       │                                   │
//	│   (~1/3 width)  ├───────────────────────────────────┤
//	│                 │  Input                            │
//	├─────────────────┴───────────────────────────────────┤
//	│ Footer (1 line)                                     │
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// Layout: ComputeLayout turns a terminal size into panel sizes. The sidebar
// takes a third of the width, bounded so titles stay readable.
//
// Header: application title and the active session's title on a gradient.
//
// Footer: context-aware key bindings, replaced for a few seconds by flash
// messages.
//
// Sidebar: sessions created in the last 24 hours, newest first, with the
// active one highlighted.
//
// Chat: the message thread and the input box. User messages are right-aligned
// and shown literally; assistant messages are left-aligned and rendered from
// Markdown. A reply carrying an RTI draft shows a preview block with the
// download and copy keys.
//
// Modal: popup dialogs (help, settings, save draft) defined in package modals.
//
// # Styles
//
// Styles are package variables derived from the current Theme. SetTheme
// regenerates them; components read them at render time.
package ui
