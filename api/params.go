// File: api/params.go
// Author: momentics <momentics@gmail.com>
//
// Inherited session settings and the fixed-size transport-parameters
// record stored by the resumption cache.

package api

// Settings is the configuration blob a session inherits from its owner
// and applies to every connection registered under it. Zero values mean
// "leave the connection's current value alone"; the Set* flags mark which
// fields carry a value, so partially populated blobs compose.
type Settings struct {
	SetIdleTimeout          bool
	SetHandshakeIdleTimeout bool
	SetPeerBidiStreamCount  bool
	SetPeerUnidiStreamCount bool
	SetMaxBytesPerKey       bool
	SetKeepAlive            bool

	IdleTimeoutMs          uint64
	HandshakeIdleTimeoutMs uint64
	PeerBidiStreamCount    uint16
	PeerUnidiStreamCount   uint16
	MaxBytesPerKey         uint64
	KeepAliveIntervalMs    uint32

	PacingEnabled        bool
	SendBufferingEnabled bool
}

// Merge overlays src onto s, field by field, honoring the Set* flags.
func (s *Settings) Merge(src *Settings) {
	if src.SetIdleTimeout {
		s.SetIdleTimeout = true
		s.IdleTimeoutMs = src.IdleTimeoutMs
	}
	if src.SetHandshakeIdleTimeout {
		s.SetHandshakeIdleTimeout = true
		s.HandshakeIdleTimeoutMs = src.HandshakeIdleTimeoutMs
	}
	if src.SetPeerBidiStreamCount {
		s.SetPeerBidiStreamCount = true
		s.PeerBidiStreamCount = src.PeerBidiStreamCount
	}
	if src.SetPeerUnidiStreamCount {
		s.SetPeerUnidiStreamCount = true
		s.PeerUnidiStreamCount = src.PeerUnidiStreamCount
	}
	if src.SetMaxBytesPerKey {
		s.SetMaxBytesPerKey = true
		s.MaxBytesPerKey = src.MaxBytesPerKey
	}
	if src.SetKeepAlive {
		s.SetKeepAlive = true
		s.KeepAliveIntervalMs = src.KeepAliveIntervalMs
	}
	s.PacingEnabled = src.PacingEnabled
	s.SendBufferingEnabled = src.SendBufferingEnabled
}

// TransportParameters is the peer's transport-parameter record as
// negotiated during the handshake. It is a plain value type: the
// resumption cache stores and returns it by copy.
type TransportParameters struct {
	InitialMaxData                 uint64
	InitialMaxStreamDataBidiLocal  uint64
	InitialMaxStreamDataBidiRemote uint64
	InitialMaxStreamDataUni        uint64
	InitialMaxStreamsBidi          uint64
	InitialMaxStreamsUni           uint64
	MaxUDPPayloadSize              uint64
	MaxIdleTimeoutMs               uint64
	MaxAckDelayMs                  uint64
	AckDelayExponent               uint8
	ActiveConnectionIDLimit        uint8
	DisableActiveMigration         bool
}
