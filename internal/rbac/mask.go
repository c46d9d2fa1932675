package rbac

import "math/bits"

// Bit widths of the two masks. Catalog ids are 1-based and map to bit id-1.
const (
	MaxPermissionID = 64
	MaxRoleID       = 16
)

// PermissionMask is a set of permission catalog ids.
type PermissionMask uint64

// RoleMask is a set of role catalog ids.
type RoleMask uint16

// PermissionBit returns the mask holding only the given permission id.
// Ids outside 1..MaxPermissionID yield an empty mask.
func PermissionBit(id int64) PermissionMask {
	if id < 1 || id > MaxPermissionID {
		return 0
	}
	return PermissionMask(1) << uint(id-1)
}

// RoleBit returns the mask holding only the given role id.
// Ids outside 1..MaxRoleID yield an empty mask.
func RoleBit(id int64) RoleMask {
	if id < 1 || id > MaxRoleID {
		return 0
	}
	return RoleMask(1) << uint(id-1)
}

// Has reports whether the permission id is in the mask.
func (m PermissionMask) Has(id int64) bool {
	bit := PermissionBit(id)
	return bit != 0 && m&bit != 0
}

// With returns a copy of the mask with the permission id added.
func (m PermissionMask) With(id int64) PermissionMask {
	return m | PermissionBit(id)
}

// IDs lists the permission ids held by the mask in ascending order.
func (m PermissionMask) IDs() []int64 {
	ids := make([]int64, 0, bits.OnesCount64(uint64(m)))
	for v := uint64(m); v != 0; v &= v - 1 {
		ids = append(ids, int64(bits.TrailingZeros64(v))+1)
	}
	return ids
}

// Has reports whether the role id is in the mask.
func (m RoleMask) Has(id int64) bool {
	bit := RoleBit(id)
	return bit != 0 && m&bit != 0
}

// With returns a copy of the mask with the role id added.
func (m RoleMask) With(id int64) RoleMask {
	return m | RoleBit(id)
}

// IDs lists the role ids held by the mask in ascending order.
func (m RoleMask) IDs() []int64 {
	ids := make([]int64, 0, bits.OnesCount16(uint16(m)))
	for v := uint16(m); v != 0; v &= v - 1 {
		ids = append(ids, int64(bits.TrailingZeros16(v))+1)
	}
	return ids
}
