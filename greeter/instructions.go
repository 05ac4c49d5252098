package greeter

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
)

// createAccountInstruction allocates space bytes at address, funded by payer and owned by
// program. payer is also the derivation base, so it is the only signer.
func createAccountInstruction(payer solana.PublicKey, seed string, address solana.PublicKey, lamports, space uint64, program solana.PublicKey) solana.Instruction {
	return system.NewCreateAccountWithSeedInstruction(
		payer,
		seed,
		lamports,
		space,
		program,
		payer,
		address,
		payer,
	).Build()
}

// greetInstruction invokes the greeter program on address. The program takes no
// instruction data.
func greetInstruction(program, address solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		program,
		solana.AccountMetaSlice{
			solana.Meta(address).WRITE(),
		},
		[]byte{},
	)
}
