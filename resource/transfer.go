package resource

import (
	"reflect"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/scope/errors"
)

// transfer produces the value a new owner stores.
func transfer[V any](v V) (V, error) {
	if c, ok := any(v).(Copier[V]); ok {
		return c.Copy()
	}
	return v, nil
}

// failsafe reports whether transferring v can never fail.
func failsafe[V any](v V) bool {
	_, ok := any(v).(Copier[V])
	return !ok
}

// swapValues exchanges *a and *b. Both new values are produced before either
// slot is written, so a failure leaves both untouched.
func swapValues[V any](a, b *V) error {
	if failsafe(*a) && failsafe(*b) {
		*a, *b = *b, *a
		return nil
	}
	na, err := transfer(*b)
	if err != nil {
		return err
	}
	nb, err := transfer(*a)
	if err != nil {
		return err
	}
	*a, *b = na, nb
	return nil
}

func typeName[V any]() string {
	return reflect.TypeFor[V]().String()
}

// reclaim runs del on a resource whose owner could not be established.
func reclaim[R any, D Deleter[R]](phase errors.Phase, del D, res *R) error {
	Logger().Debug("reclaiming resource after failed transfer",
		zap.String("phase", string(phase)),
		zap.String("resource", typeName[R]()))
	if err := del.Delete(res); err != nil {
		Logger().Warn("deleter failed while reclaiming resource",
			zap.String("phase", string(phase)),
			zap.String("resource", typeName[R]()),
			zap.Error(err))
		return errors.DeleteFailed(phase, typeName[R](), err)
	}
	return nil
}

// construct transfers res and del into fresh storage slots. If either
// transfer fails and the value is allocated, the caller's deleter is run on
// whichever copy of the resource exists before the error is returned.
func construct[R any, D Deleter[R]](res R, del D, allocated bool) (R, D, error) {
	var zd D
	r, err := transfer(res)
	if err != nil {
		err = errors.TransferFailed(errors.PhaseConstruct, errors.PartResource, typeName[R](), err)
		if allocated {
			err = multierr.Append(err, reclaim(errors.PhaseConstruct, del, &res))
		}
		return r, zd, err
	}
	d, err := transfer(del)
	if err != nil {
		err = errors.TransferFailed(errors.PhaseConstruct, errors.PartDeleter, typeName[D](), err)
		if allocated {
			err = multierr.Append(err, reclaim(errors.PhaseConstruct, del, &r))
		}
		return r, zd, err
	}
	return r, d, nil
}

// moveParts transfers the resource and deleter of a move source. When the
// resource transfer was a plain move and the deleter transfer fails, the
// source's deleter reclaims the moved value; cleared reports whether that
// reclaim succeeded, in which case the source no longer owns anything.
func moveParts[R any, D Deleter[R]](res *R, del *D, allocated bool) (r R, d D, cleared bool, err error) {
	r, err = transfer(*res)
	if err != nil {
		return r, d, false, errors.TransferFailed(errors.PhaseMove, errors.PartResource, typeName[R](), err)
	}
	moved := failsafe(*res)
	d, err = transfer(*del)
	if err != nil {
		err = errors.TransferFailed(errors.PhaseMove, errors.PartDeleter, typeName[D](), err)
		if moved && allocated {
			rerr := reclaim(errors.PhaseMove, *del, &r)
			return r, d, rerr == nil, multierr.Append(err, rerr)
		}
		return r, d, false, err
	}
	return r, d, false, nil
}

// assignParts writes the source's resource and deleter into the target
// slots. A failsafe deleter goes last so a failed resource transfer leaves
// the target's deleter alone; a fallible deleter goes first.
func assignParts[R any, D Deleter[R]](dstRes *R, dstDel *D, srcRes R, srcDel D) error {
	if failsafe(srcDel) {
		r, err := transfer(srcRes)
		if err != nil {
			return errors.TransferFailed(errors.PhaseAssign, errors.PartResource, typeName[R](), err)
		}
		*dstRes = r
		*dstDel = srcDel
		return nil
	}

	d, err := transfer(srcDel)
	if err != nil {
		return errors.TransferFailed(errors.PhaseAssign, errors.PartDeleter, typeName[D](), err)
	}
	*dstDel = d
	r, err := transfer(srcRes)
	if err != nil {
		return errors.TransferFailed(errors.PhaseAssign, errors.PartResource, typeName[R](), err)
	}
	*dstRes = r
	return nil
}

// swapParts exchanges resources and deleters of two guards all-or-nothing.
// The failsafe part is swapped first and swapped back if the other fails.
func swapParts[R any, D Deleter[R]](ra, rb *R, da, db *D) error {
	resSafe := failsafe(*ra) && failsafe(*rb)
	delSafe := failsafe(*da) && failsafe(*db)

	switch {
	case resSafe && delSafe:
		*ra, *rb = *rb, *ra
		*da, *db = *db, *da
	case resSafe:
		*ra, *rb = *rb, *ra
		if err := swapValues(da, db); err != nil {
			*ra, *rb = *rb, *ra
			return errors.TransferFailed(errors.PhaseSwap, errors.PartDeleter, typeName[D](), err)
		}
	case delSafe:
		*da, *db = *db, *da
		if err := swapValues(ra, rb); err != nil {
			*da, *db = *db, *da
			return errors.TransferFailed(errors.PhaseSwap, errors.PartResource, typeName[R](), err)
		}
	default:
		return errors.New(errors.PhaseSwap, errors.KindUnsupported).
			Type(typeName[R]()).
			Detail("neither resource nor deleter of %s can be swapped without failure", typeName[D]()).
			Build()
	}
	return nil
}
