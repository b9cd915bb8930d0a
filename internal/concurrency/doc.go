// Package concurrency
// Author: momentics <momentics@gmail.com>
//
// Synchronization primitives of the session core: the Rundown draining
// guard protecting object teardown, and the preallocated OperRing used
// as the allocation-free priority lane of connection work queues.

package concurrency
