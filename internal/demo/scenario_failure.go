package demo

import (
	"context"
	"errors"
	"fmt"

	"github.com/wippyai/scope/resource"
)

func init() {
	Register("failure", runFailure)
}

var errTransfer = errors.New("transfer refused")

// token is a resource whose transfer can be made to fail.
type token struct {
	id     int
	refuse *bool
}

func (t token) Copy() (token, error) {
	if *t.refuse {
		return token{}, errTransfer
	}
	return t, nil
}

// tokenDeleter counts reclaimed tokens.
type tokenDeleter struct {
	freed *[]int
}

func (d tokenDeleter) Delete(t *token) error {
	*d.freed = append(*d.freed, t.id)
	return nil
}

// runFailure injects transfer failures and checks that no token is lost
// or reclaimed twice.
func runFailure(_ context.Context, sc *Session) error {
	refuse := true
	var freed []int
	del := tokenDeleter{freed: &freed}

	_, err := resource.NewGuard(token{id: 1, refuse: &refuse}, del)
	if err := sc.Expect("construct", err); err != nil {
		return err
	}
	sc.Record("construct", "argument reclaimed: %v", freed)

	refuse = false
	g, err := resource.NewGuard(token{id: 2, refuse: &refuse}, del)
	if err != nil {
		return sc.Fail("construct", err)
	}
	if err := sc.Own("token.2", g); err != nil {
		return err
	}

	refuse = true
	_, err = g.Move()
	if err := sc.Expect("move", err); err != nil {
		return err
	}
	sc.Record("move", "source still allocated=%t", g.Allocated())

	other, err := resource.NewGuard(token{id: 3, refuse: new(bool)}, del)
	if err != nil {
		return sc.Fail("construct", err)
	}
	if err := sc.Own("token.3", other); err != nil {
		return err
	}
	if err := sc.Expect("swap", g.Swap(other)); err != nil {
		return err
	}
	sc.Record("swap", "rolled back: g=%d other=%d", g.Get().id, other.Get().id)
	refuse = false

	if len(freed) != 1 || freed[0] != 1 {
		return sc.Fail("verify", fmt.Errorf("unexpected reclaimed tokens %v", freed))
	}
	return nil
}
