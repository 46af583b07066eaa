/*
Package converter implements Converter contract hosting bonding curve pools.

A pool is named after the code of its pool token. It holds a set of weighted
reserves and issues the pool token according to the constant reserve ratio
formula (see formula package). The converter is the issuer of every pool
token it hosts.

Tokens are paid to the converter with NEP-17 transfers carrying a memo:

	fund;POOL       deposit for Convert and Fund, can be withdrawn back
	liquidate;POOL  burn pool tokens and get reserves proportionally
	setup;POOL      initial reserve balance from the owner of a disabled pool

POOL is either a pool code ("BNT") or a pool symbol ("8,BNT"), any other
symbol in method arguments is "<precision>,<CODE>". A symbol with another
precision is never accepted for the same code.

Amounts paid out by the converter are always rounded down, amounts the user
pays (fund costs, fees) are rounded up.

# Contract notifications

Conversion notification. It is produced by every successful Convert call.

	Conversion:
	  - name: pool
	    type: String
	  - name: from
	    type: String
	  - name: to
	    type: String
	  - name: amount
	    type: Integer
	  - name: return
	    type: Integer
	  - name: fee
	    type: Integer

PriceData notification. It is produced for every reserve changed by
Convert, Fund, liquidation or setup. smartSupply is the pool token
supply after the operation.

	PriceData:
	  - name: pool
	    type: String
	  - name: reserve
	    type: String
	  - name: reserveRatio
	    type: Integer
	  - name: reserveBalance
	    type: Integer
	  - name: smartSupply
	    type: Integer

Fund and Liquidate notifications are produced when pool tokens are issued
by Fund or burnt by liquidation.

	Fund:
	  - name: pool
	    type: String
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package converter

/*
Contract storage model.

# Summary
Current conventions:
 <pool>: pool token code, 1-7 chars of A-Z
 <code>: reserve token code
 <account>: 20-byte account script hash

Key-value storage format:
 - 's<pool>' -> std.Serialize(Settings)
   pool settings
 - 'r<pool>.<code>' -> std.Serialize(Reserve)
   pool reserves
 - 'p<pool>.' + <account> + <code> -> int
   pending deposits, removed when consumed completely
 - 'd<pool>.<code>' -> int
   sum of pending deposits of the token in the pool
*/
