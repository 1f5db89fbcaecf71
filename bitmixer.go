package automata

// mix32 is the 32-bit final mixing step of MurmurHash3, used to spread
// state ids before summing them into a set hash.
func mix32(v int) uint32 {
	k := uint32(v)
	k = (k ^ (k >> 16)) * 0x85ebca6b
	k = (k ^ (k >> 13)) * 0xc2b2ae35
	return k ^ (k >> 16)
}
