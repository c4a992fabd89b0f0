// Package reputation wraps the remote threat-list API behind a single
// stateless call: a URL string in, a boolean "is flagged unsafe" out.
//
// The API is keyed by a bearer token taken from external configuration.
// Failures surface as a generic ErrLookupFailed; the caller has nothing to
// gain from distinguishing transport failures from server ones.
package reputation
