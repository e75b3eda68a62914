package kv

type Prefix byte

func PrefixedKey(p Prefix, key []byte) []byte {
	return append([]byte{byte(p)}, key...)
}

// upperBound returns the exclusive iteration bound for a prefix, nil for the
// last prefix value.
func upperBound(p Prefix) []byte {
	if p == 0xff {
		return nil
	}
	return []byte{byte(p) + 1}
}
