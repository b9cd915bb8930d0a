// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime control plane for the session core: file/env configuration
// producing the default inherited settings, Prometheus metrics fed from
// lifecycle events, and debug probes for internal inspection.

package control
