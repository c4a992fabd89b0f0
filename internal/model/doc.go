// Package model defines the core data structures used throughout dialdex.
//
// The central type is ContactRecord, the unit produced by the directory
// scraper and persisted in the local contact store. Phone numbers are
// compared only through their normalized digits-only form; see
// NormalizePhone.
//
// Design decision: We separate models into their own package to avoid
// circular dependencies. Multiple packages (scraper, store, directory,
// report) need these types, so centralizing them prevents import cycles.
package model
