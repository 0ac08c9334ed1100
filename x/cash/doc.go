/*
Package cash defines a simple wallet to hold token balances and a controller
to move tokens between wallets.

Handlers of other extensions do not access the wallet bucket directly. They
are given a controller that performs the balance checks and keeps both sides
of a transfer consistent.
*/
package cash
