// Package miniapp holds the state of the time-report mini-app: launch context,
// report draft, page navigation and payload construction. Rendering and the
// host platform are reached through the View and Bridge interfaces, so every
// transition can be driven and observed without a real UI.
//
// A Controller is single-threaded and not safe for concurrent use.
package miniapp
