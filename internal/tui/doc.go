// Package tui implements the terminal client. Built on bubbletea (Elm
// architecture): all state lives in the Model, every external signal
// arrives as a message through the single update loop, so no view
// logic ever races another.
//
// Background machinery (session manager, flight refresher, notification
// channel) runs on its own goroutines and surfaces into the loop
// through listen commands that block on the respective signal channels
// and re-arm themselves after each delivery.
//
// Screen access goes through the gate package: every protected screen
// is rendered only after a gate verdict, so the loading, redirect, and
// denied states are decided in one place.
package tui
