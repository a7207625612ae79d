// Package busclient is a client library for a durable pub/sub message
// bus: typed event publication with deduplication and structured
// headers, a long-running pull-consumer loop with ack/nak/term outcome
// mapping, and a poison-message terminate protocol that republishes a
// message under a quarantine subject before dropping it from the
// original stream.
//
// The wire protocol is provided by an external collaborator — this
// package's [NATSClient] wraps a NATS JetStream connection, dialled
// with a credentials file by [Connect] — and config file discovery
// belongs to the calling service. Everything this package
// exports is safe for concurrent use unless documented otherwise.
package busclient
