package greeter

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// GreetingAccount is the record stored by the greeter program: a little-endian u32
// counter with no padding and no version tag.
type GreetingAccount struct {
	Counter uint32
}

// GreetingSize is the byte size of an encoded GreetingAccount. It is the space
// allocated on provisioning and the only length DecodeGreeting accepts.
var GreetingSize = layoutSize(GreetingAccount{})

func layoutSize(v interface{}) uint64 {
	b, err := bin.MarshalBorsh(v)
	if err != nil {
		panic(fmt.Sprintf("greeter: failed to size layout %T: %v", v, err))
	}
	return uint64(len(b))
}

// DecodeGreeting deserializes raw account data into a GreetingAccount.
func DecodeGreeting(data []byte) (GreetingAccount, error) {
	var acct GreetingAccount
	if uint64(len(data)) != GreetingSize {
		return acct, &MalformedRecordError{Expected: GreetingSize, Actual: len(data)}
	}

	if err := bin.NewBorshDecoder(data).Decode(&acct); err != nil {
		return GreetingAccount{}, &MalformedRecordError{Expected: GreetingSize, Actual: len(data), Err: err}
	}
	return acct, nil
}
