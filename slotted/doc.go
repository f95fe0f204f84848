package slotted

/*

# Slotted key/value arrays (fixed-capacity, in-place writes)

This package implements a fixed-capacity key/value map packed into a single
caller-owned byte buffer, with no dynamic growth. It follows the same
"functional primitives" style as the rest of the repository:

- explicit byte layouts
- all state stored inside the buffer, none beside it
- a burden of knowledge on the caller for hot paths

## Layout

	|--------|-------------------|--- free ---|--------------------|
	| header | slot0 slot1 ...   |    gap     | ... payload1 pay0  |
	|--------|-------------------|------------|--------------------|
	 8 bytes   6 bytes per slot                 packed at the top

The slot directory grows upward from the header; payloads are allocated
downward from the top of the buffer. The header tracks the slot count, the
data frontier (lowest used payload byte) and the number of tombstoned
payload bytes.

Each slot records a payload offset, a payload length and a 15-bit key
fingerprint; the top bit of the fingerprint word marks a tombstone. A
payload is the wire-encoded key followed by the raw value bytes.

## Core invariants

1. a zero-filled buffer is a valid empty array
2. live payloads never overlap and lie entirely inside the buffer
3. at most one live slot exists per logical key
4. directory bytes + live payload bytes + gap + tombstoned payload
   bytes account for the buffer exactly

Deletion only tombstones; TrySet runs a single defragmentation pass when
the contiguous gap is too small but the total free space suffices, then
retries the insert exactly once. A failed TrySet leaves the buffer
byte-for-byte unchanged.

The buffer is the unit of mutual exclusion: views over the same buffer
must not be used concurrently, and enumerations must not be held across a
mutation of the same buffer.

*/
