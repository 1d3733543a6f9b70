// Package gui is the desktop frontend for purse, built on Fyne.
//
// A Driver creates one Fyne window per window-manager surface: a splash
// window, the fixed-size main card and the settings form. All widget work
// runs on Fyne's main goroutine through fyne.Do; requests to the shell go
// through the command bus and never block that goroutine.
package gui
