package meta

import (
	"crypto/sha256"
	"encoding/binary"

	"golang.org/x/text/unicode/norm"
)

// DomainFingerprint is the domain-separation prefix for type fingerprints.
// The version suffix enables future algorithm migration without silently
// matching fingerprints produced by an older toolchain.
const DomainFingerprint = "keel/fingerprint/v1"

// FingerprintProvider answers structural fingerprint queries. A return value
// of 0 means "unknown or unstable" and gates any indirect-load shortcut when
// verification is enabled.
type FingerprintProvider interface {
	FingerprintOf(t *Type) uint64
}

// FingerprintOf computes (and memoizes) the structural fingerprint of a type.
// Types flagged unstable report 0. The hash covers the NFC-normalized type
// name, kind, super chain link, declared interfaces, and field shape, each
// written with a null separator to prevent boundary ambiguity.
//
// The computed value is never 0: the all-zero 64-bit truncation is mapped to
// 1 so that 0 stays reserved for "unknown/unstable".
func (u *Universe) FingerprintOf(t *Type) uint64 {
	if t.unstable {
		return 0
	}
	if fp, ok := u.prints[t]; ok {
		return fp
	}

	h := sha256.New()
	write := func(s string) {
		h.Write([]byte(norm.NFC.String(s)))
		h.Write([]byte{0x00})
	}
	write(DomainFingerprint)
	write(t.name)
	write(t.kind.String())
	if t.super != nil {
		write(t.super.name)
	}
	for _, i := range t.ifaces {
		write(i.name)
	}
	for _, f := range t.fields {
		write(f.Name)
		write(f.TypeName)
	}

	sum := h.Sum(nil)
	fp := binary.BigEndian.Uint64(sum[:8])
	if fp == 0 {
		fp = 1
	}
	u.prints[t] = fp
	return fp
}
