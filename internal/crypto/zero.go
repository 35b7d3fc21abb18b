package crypto

import "github.com/awnumar/memguard"

// Zero overwrites b with zeros.
func Zero(b []byte) {
	memguard.WipeBytes(b)
}
