package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Memory/place diagnostics.
	MemInfo               Code = 1000
	MemAssignImmutable    Code = 1001
	MemAssignNonPlace     Code = 1002
	MemMutBorrowImmutable Code = 1003
	MemMutBorrowShared    Code = 1004
	MemMutBorrowStatic    Code = 1005
	MemMoveFromIndex      Code = 1006
	MemMoveFromBorrow     Code = 1007

	// Fixture/driver surface.
	FixInfo        Code = 2000
	FixBadManifest Code = 2001
	FixUnknownRef  Code = 2002
)

func (c Code) String() string {
	return fmt.Sprintf("FE%04d", uint16(c))
}
