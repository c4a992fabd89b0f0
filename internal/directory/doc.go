// Package directory composes the crawl session and the contact store into
// the operations the command layer consumes: refresh-all, search, and
// scammer flagging.
//
// Refresh is the only operation that touches the network. It is serialized
// per service instance (concurrent callers share one in-flight crawl) and
// it never lets an empty crawl result wipe previously stored data.
package directory
