// Package naming provides the naming conventions for compiled resources.
//
// Names are derived purely from the canonical deployment name and engine,
// never from cluster lookups, so the frontend address of a deployment is
// known before it exists.
package naming
