package enums

// CartOwnerKind distinguishes guest-session carts from authenticated carts.
type CartOwnerKind string

const (
	CartOwnerGuest CartOwnerKind = "guest"
	CartOwnerUser  CartOwnerKind = "user"
)

func (k CartOwnerKind) IsValid() bool {
	switch k {
	case CartOwnerGuest, CartOwnerUser:
		return true
	}
	return false
}
