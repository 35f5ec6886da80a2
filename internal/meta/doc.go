// Package meta provides the type and method metadata model consumed by the
// AOT pipeline.
//
// This package is the foundational layer: every other internal package may
// import meta; meta imports nothing internal. The central object is the
// Universe, a registry of class, interface, array, and primitive types plus
// the methods compiled against them. Universes are either built directly in
// tests or compiled from CUE universe files (see LoadUniverse).
//
// Key design constraints:
//   - Types are interned: pointer equality is identity within a Universe
//   - Fingerprints are 64-bit structural hashes; 0 is reserved for
//     "unknown/unstable" and is never a valid computed fingerprint
//   - The boxing-cache allow-list is an injected set of runtime mirror
//     identities, never a process-wide static
package meta
