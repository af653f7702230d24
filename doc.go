// Package cimd2 builds CIMD2 request frames: a per-session packet
// counter and one constructor per CIMD2 operation, each enforcing the
// operation's mandatory/optional/exclusion parameter rules before
// delegating to pdu.Codec. The TCP session that drives these
// constructors over the wire lives in the sibling session package.
package cimd2
