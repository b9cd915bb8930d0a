// File: api/secconfig.go
// Author: momentics <momentics@gmail.com>
//
// Reference-counted security configuration contract.

package api

// SecConfig is an opaque, reference-counted security configuration
// produced by the TLS layer. The resumption cache holds one reference
// per cached entry; callers receiving a config out of the cache receive
// their own additional reference and must Release it.
type SecConfig interface {
	// AddRef takes an additional reference and returns the receiver.
	AddRef() SecConfig

	// Release drops one reference. The object is freed by its producer
	// once the count reaches zero.
	Release()
}
