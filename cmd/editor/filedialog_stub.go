//go:build !dialog
// +build !dialog

package main

import "errors"

var errNoDialog = errors.New("native file dialog unavailable; build with -tags dialog to enable")

// openInputDialog is a stub used when the native dialog build tag isn't set.
func openInputDialog(kind string) (string, error) {
	return "", errNoDialog
}

// saveOutputDialog is a stub used when the native dialog build tag isn't set.
func saveOutputDialog(name string) (string, error) {
	return "", errNoDialog
}
