/*
Package bridge implements Bridge contract holding tokens that cross the chain
boundary.

Reporters (2/3n+1 multisignature of the keys set on deployment) report
amounts that arrived from the other side with ReportAmount. The network
contract consumes a reported amount once in ConvertByRef; the tokens are
transferred to the network then.

Tokens sent to the bridge with a directive string as transfer data leave the
chain: XTransfer notification is produced for the reporters. Tokens sent with
no data top up the bridge balance.

# Contract notifications

AmountReported notification. It is produced when reporters record a new
amount.

	AmountReported:
	  - name: account
	    type: Hash160
	  - name: id
	    type: String
	  - name: token
	    type: Hash160
	  - name: amount
	    type: Integer

XTransfer notification. It is produced for every transfer with a directive.

	XTransfer:
	  - name: from
	    type: Hash160
	  - name: token
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: directive
	    type: String
*/
package bridge

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'network' -> interop.Hash160
    network contract
  - 'reporters' -> std.Serialize([]interop.PublicKey)
    reporter keys
  - 'a' + interop.Hash160 + id -> std.Serialize(Amount)
    reported amounts, removed when consumed
*/
