package common

// WipeByteArray overwrites the buffer with zeros. Used to scrub passwords
// read from the terminal once they have been consumed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
