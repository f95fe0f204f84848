package nibble

/*

# Nibble paths

This package provides the packed nibble-path value type used as the
hierarchical key representation by the slotted map structures.

A path is a sequence of up to 64 4-bit values, two per byte, high nibble
first. Paths are small value types; slicing repacks into a fresh backing
array so that equality and the wire encoding are always canonical.

The wire form is:

	path[0]    = nibble count
	path[1:..] = ceil(count/2) packed bytes

Unused trailing nibbles are always zero.

*/
