/*
Package network implements Network contract routing conversions across
converter pools.

Tokens are sent to the network with a conversion memo:

	1,<name>[:<POOL>] <TARGET>[ <name>[:<POOL>] <TARGET>...],<min_return>,<destination>[,<affiliate>,<fee>][;<directive>]

Every hop converts the current token to TARGET in the pool of the converter
registered under the name, the default pool of the converter is used if POOL
is omitted. min_return is a decimal number in units of the final token.
destination must be the sender unless the directive is present, then it must
be the bridge contract which receives the directive as transfer data.

The affiliate fee is in ppm, it is charged once from the return of the first
hop that converts a reserve token and is rounded down. It can not exceed
MaxAffiliateFee (30000 by default).

Amounts reported to the bridge can be converted with ConvertByRef, the same
memo is used.

# Contract notifications

Affiliate notification. It is produced when the affiliate fee is charged,
return is the hop return before the fee was deducted.

	Affiliate:
	  - name: return
	    type: Integer
	  - name: fee
	    type: Integer
	  - name: affiliate
	    type: Hash160
*/
package network

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'o' -> interop.Hash160
    network owner
  - 'b' -> interop.Hash160
    bridge contract
  - 'f' -> int
    maximum affiliate fee in ppm
  - 'l' -> int
    routing lock, it exists only while a conversion is in progress
  - 'c' + name -> std.Serialize(Converter)
    converter registry
*/
