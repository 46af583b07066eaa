/*
Package token implements NEP-17 token contract used both for pool tokens of
converters and for reserve tokens.

Token symbol, decimals and issuer are set once on deployment. Only the issuer
can mint and burn tokens, for a pool token the issuer is the converter
contract hosting the pool.

# Contract notifications

Transfer notification. This is a NEP-17 standard notification.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package token

/*
Contract storage model.

# Summary
Key-value storage format:
  - 's' -> string
    token symbol
  - 'd' -> int
    token decimals
  - 'i' -> interop.Hash160
    issuer script hash
  - 't' -> int
    total supply
  - 'a' + interop.Hash160 -> int
    account balance, removed when it drops to zero
*/
