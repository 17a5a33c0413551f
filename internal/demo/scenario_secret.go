package demo

import (
	"context"

	"github.com/wippyai/scope/secret"
)

func init() {
	Register("secret", runSecret)
}

// runSecret seals a random key into an enclave and reopens it.
func runSecret(_ context.Context, sc *Session) error {
	key, err := secret.Random(sc.Config.Secret.Size)
	if err != nil {
		return sc.Fail("random", err)
	}
	if err := sc.Own("secret.key", key); err != nil {
		return err
	}
	sc.Record("random", "%d bytes locked", key.Get().Size())

	enclave, err := secret.Seal(key)
	if err != nil {
		return sc.Fail("seal", err)
	}
	sc.Record("seal", "plaintext destroyed, guard allocated=%t", key.Allocated())

	opened, err := secret.Open(enclave)
	if err != nil {
		return sc.Fail("open", err)
	}
	if err := sc.Own("secret.opened", opened); err != nil {
		return err
	}
	sc.Record("open", "%d bytes decrypted", opened.Get().Size())

	if err := sc.Expect("reseal", sealTwice(key)); err != nil {
		return err
	}
	return nil
}

func sealTwice(key *secret.Buffer) error {
	_, err := secret.Seal(key)
	return err
}
