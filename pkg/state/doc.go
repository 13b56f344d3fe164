// Package state saves docks to property-list documents and restores them.
//
// # Dock documents
//
// [SaveDock] writes a dock's flags, its origin and one record per docked
// application:
//
//	{
//	  "Lowered": "YES",
//	  "AutoRaiseLower": "NO",
//	  "Collapsed": "NO",
//	  "AutoCollapse": "NO",
//	  "AutoAttractIcons": "NO",
//	  "Position": "3,0",
//	  "Applications": [
//	    {"Name": "xterm.XTerm", "Command": "xterm", "Position": "0,3", ...}
//	  ]
//	}
//
// Attracted icons are not saved. Main dock positions always have x = 0,
// and the Main dock also writes its records under "Applications<height>"
// so a screen of another height can keep its own layout.
//
// [RestoreDock] replays the records into an empty dock. A record that has
// no identity, no command or an unreadable position is skipped with a
// warning; so is a record whose slot is taken or beyond the dock's
// capacity. Skips are listed in the returned [Report] and never abort the
// restore.
//
// # Sessions
//
// [SaveSession] and [RestoreSession] cover a whole desktop: the Main dock,
// its drawers and one Clip per workspace.
package state
