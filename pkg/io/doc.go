// Package io reads and writes dockworks state documents as JSON files.
//
// # Format
//
// A state document is a property-list dictionary (see [plist]) encoded as
// a JSON object whose values are strings, arrays or objects. The session
// document written by [state.SaveSession] looks like:
//
//	{
//	  "Dock": {
//	    "Lowered": "YES",
//	    "Position": "3,0",
//	    "Applications": [
//	      {"Name": "xterm.XTerm", "Command": "xterm", "Position": "0,3"}
//	    ]
//	  },
//	  "Drawers": [],
//	  "Workspaces": [
//	    {"Name": "Workspace 1", "Clip": {"Position": "1216,0", "Applications": []}}
//	  ]
//	}
//
// Key order is preserved, so exporting an imported document reproduces it.
//
// # Import
//
// Use [ImportDocument] to read a document from a file path, or
// [ReadDocument] to read from any io.Reader. A document that is not a JSON
// object fails with a CORRUPT_PERSISTED_RECORD error; callers restore an
// empty desktop in that case.
//
// # Export
//
// Use [ExportDocument] to write a document to a file, or [WriteDocument]
// to write to any io.Writer. ExportDocument writes to a temporary file in
// the same directory and renames it into place.
//
// [plist]: github.com/matzehuels/dockworks/pkg/plist
// [state.SaveSession]: github.com/matzehuels/dockworks/pkg/state.SaveSession
package io
