//go:build dialog
// +build dialog

package main

import (
	"github.com/sqweek/dialog"
)

// openInputDialog opens the native file dialog filtered to one input kind
// ("svg" or "csv") and returns the selected path.
func openInputDialog(kind string) (string, error) {
	switch kind {
	case "svg":
		return dialog.File().Filter("SVG boundary file", "svg").Title("Select boundary map").Load()
	default:
		return dialog.File().Filter("CSV vote file", "csv").Title("Select vote counts").Load()
	}
}

// saveOutputDialog asks where to store the downloaded map.
func saveOutputDialog(name string) (string, error) {
	return dialog.File().Filter("SVG file", "svg").Title("Save rendered map").SetStartFile(name).Save()
}
