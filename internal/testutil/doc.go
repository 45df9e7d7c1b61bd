// Package testutil holds stub collaborators shared by package tests: a
// recording mail sender and an in-memory accident provider.
package testutil
