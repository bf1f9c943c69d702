// Package app holds the services behind the motivation API: the quote feed
// shared by the app and the widget, reminder scheduling, the widget
// timeline and authentication.
//
// Services depend on ports only. Each takes a Config struct whose optional
// fields (logger, clock, metrics) fall back to defaults.
package app
