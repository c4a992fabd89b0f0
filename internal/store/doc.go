// Package store persists scraped contact records in a local JSON file.
//
// The file holds a JSON array of {name, designation, phone, isScammer}
// objects with no schema version field; a format change requires
// out-of-band handling. File absence or empty content is logically
// "no data". Writes go through a temp-file-and-rename so the file is never
// observed partially written; reads never fail, recovering corrupt or
// unreadable content as an empty store.
package store
