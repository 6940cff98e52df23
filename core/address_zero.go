package core

// AddressZero represents the zero-value address (all 20 bytes set to zero).
//
// Declared at package level as the sentinel validateIntent compares
// against to reject a zero-valued owner, recipient, or token address. It
// should be treated as read-only.
var AddressZero = Address{}
