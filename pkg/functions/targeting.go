package functions

import (
	"fmt"

	"github.com/odoo/o-spreadsheet-formula/pkg/types"
)

// Targeting maps, for a call with nbrArgs supplied arguments, each supplied
// argument position to the index of the declared argument in force there.
// The returned function reports false for positions with no declaration.
type Targeting func(d *Descriptor, nbrArgs int) func(argIndex int) (int, bool)

// ArgTargeting is the default Targeting. Arguments before the first
// repeating one map to themselves, arguments in the repeating region cycle
// through the repeating group, and whatever follows the last complete group
// maps to the trailing declarations.
func ArgTargeting(d *Descriptor, nbrArgs int) func(argIndex int) (int, bool) {
	pre := d.RepeatingStart()
	if pre < 0 {
		return func(i int) (int, bool) {
			return i, i >= 0 && i < len(d.Args)
		}
	}

	rep := d.NbrArgRepeating
	groups := (nbrArgs - pre) / rep
	tailStart := pre + groups*rep
	if groups == 0 {
		// An incomplete group is still read as the repeating arguments.
		tailStart = nbrArgs
	}

	return func(i int) (int, bool) {
		switch {
		case i < 0:
			return 0, false
		case i < pre:
			return i, true
		case i < tailStart:
			return pre + (i-pre)%rep, true
		default:
			idx := pre + rep + (i - tailStart)
			return idx, idx < len(d.Args)
		}
	}
}

// ValidateArgCount checks that nbrArgs arguments are a valid call of d.
// The error wraps types.ErrArgCount.
func ValidateArgCount(d *Descriptor, nbrArgs int) error {
	if nbrArgs < d.MinArgRequired {
		return argCountError(fmt.Sprintf(
			"Invalid number of arguments for the %s function. Expected %d minimum, but got %d instead.",
			d.Name, d.MinArgRequired, nbrArgs))
	}
	if nbrArgs > d.MaxArgPossible {
		return argCountError(fmt.Sprintf(
			"Invalid number of arguments for the %s function. Expected %d maximum, but got %d instead.",
			d.Name, d.MaxArgPossible, nbrArgs))
	}

	if d.NbrArgRepeating > 1 {
		pre := d.RepeatingStart()
		rest := nbrArgs - pre
		if rest > 0 {
			groups, remainder := rest/d.NbrArgRepeating, rest%d.NbrArgRepeating
			if remainder != 0 && (groups == 0 || remainder > d.NbrArgOptional) {
				return argCountError(fmt.Sprintf(
					"Invalid number of arguments for the %s function. Expected all arguments after position %d to be supplied by groups of %d arguments",
					d.Name, pre, d.NbrArgRepeating))
			}
		}
	}
	return nil
}

func argCountError(message string) error {
	return types.BadExpression(message, -1).WithCause(types.ErrArgCount)
}
