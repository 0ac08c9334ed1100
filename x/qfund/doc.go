/*
Package qfund implements a quadratic funding grant round.

Contributors vote on proposals with token contributions during a voting
window. Once the window is over, the round admin triggers the distribution
and a fixed pool of matching capital is split across the proposals in
proportion to the capital constrained liberal radicalism score of their
contributions. Each proposal receives its matched share together with the
full amount it collected, and whatever the floor division left of the budget
goes to a configured leftover address.

The matching engine in matching.go is a pure function of its input. All
arithmetic is done on unsigned integers with explicit overflow checks, so
independent executions always produce bit identical results.
*/
package qfund
