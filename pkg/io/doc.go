// Package io exports a loaded dataset to JSON or YAML.
//
// # Format
//
// The export is a single document with two top-level lists, the same shape
// the local file source reads back:
//
//	families:
//	  - id: "1003"
//	    name: Donati
//	    status1Class: Noble
//	    faction1Type: Guelf
//	    subFaction: Black
//	events:
//	  - year: 1300
//	    title: Calendimaggio
//
// Families are written sorted by id so two exports of the same dataset are
// byte-identical. Events are written in chronological order.
//
// # Export
//
// Use [ExportFile] to write a file, choosing the format from the extension,
// or [Write] to write to any io.Writer:
//
//	err := io.ExportFile("snapshot.yaml", ds.Families, ds.Events)
package io
