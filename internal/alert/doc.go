// Package alert holds the accident alert workflow: the rescue-team
// directory, the per-session recipient selection, message composition and
// the dispatch action that hands a composed alert to the mail transport.
package alert
