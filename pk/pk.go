// Package pk provides the unique keys that identify scan runs in the
// catalog.
package pk

import (
	"github.com/google/uuid"
)

type PK uuid.UUID

const Size = 16

func New() PK {
	return PK(uuid.New())
}

func NewFromBytes(b []byte) PK {
	uid, err := uuid.FromBytes(b)
	if err != nil {
		panic(err)
	}
	return PK(uid)
}

// Parse reads the canonical string form, as handed to the CLI.
func Parse(s string) (PK, error) {
	uid, err := uuid.Parse(s)
	if err != nil {
		return PK{}, err
	}
	return PK(uid), nil
}

func (k PK) Bytes() []byte {
	b, err := uuid.UUID(k).MarshalBinary()
	if err != nil {
		panic(err)
	}
	return b
}

func (k PK) IsZero() bool {
	return k == PK(uuid.Nil)
}

func (k PK) String() string {
	return uuid.UUID(k).String()
}

// Short returns the first segment of the string form, enough to tell runs
// apart in logs.
func (k PK) Short() string {
	return k.String()[:8]
}
